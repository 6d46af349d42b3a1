package ui

import "context"

// Interface regroupe les interactions terminal des commandes interactives (stamp, play).
type Interface interface {
	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)

	// Prompt affiche question et retourne la réponse saisie, sans espaces autour.
	Prompt(ctx context.Context, question string) (string, error)

	// WaitForEnter bloque jusqu'à Entrée. quit vaut true si l'utilisateur a tapé "q".
	WaitForEnter(ctx context.Context) (quit bool, err error)

	// Show efface l'écran (si terminal) puis affiche le bloc de lignes.
	Show(ctx context.Context, lines ...string)

	// WaitForExit bloque jusqu'à Ctrl+C ou l'annulation de ctx.
	WaitForExit(ctx context.Context) error
}
