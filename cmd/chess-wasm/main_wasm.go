//go:build js && wasm

// Command chess-wasm registers the rules engine on the JavaScript global
// object as chessNewGame, chessPossibleMoves, chessMakeMove and
// chessSetPromotion.
package main

import (
	"syscall/js"

	"chessrules/internal/binding"
	"chessrules/internal/core"
)

func arg(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

// result returns the JSON string, or an {error, code} object on failure
func result(s string, err error) any {
	if err != nil {
		return map[string]any{"error": err.Error(), "code": core.ErrorCode(err)}
	}
	return s
}

func main() {
	global := js.Global()

	global.Set("chessNewGame", js.FuncOf(func(this js.Value, args []js.Value) any {
		return binding.NewGame()
	}))
	global.Set("chessPossibleMoves", js.FuncOf(func(this js.Value, args []js.Value) any {
		return binding.PossibleMoves(arg(args, 0), arg(args, 1))
	}))
	global.Set("chessMakeMove", js.FuncOf(func(this js.Value, args []js.Value) any {
		return result(binding.MakeMove(arg(args, 0), arg(args, 1), arg(args, 2)))
	}))
	global.Set("chessSetPromotion", js.FuncOf(func(this js.Value, args []js.Value) any {
		return result(binding.SetPromotion(arg(args, 0), arg(args, 1)))
	}))

	// Keep the exports alive for the page's lifetime
	select {}
}
