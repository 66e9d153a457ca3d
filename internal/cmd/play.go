package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/spf13/cobra"
)

// gridchess play
func Play() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play moves on a local board",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play reads moves from standard input, one per line, in the
			form "e2 e4", and prints the verdict and the board after
			each one.

			There is no turn order: either side's pieces may be moved
			at any time. Type "quit" or send EOF to stop.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return play(cmd.InOrStdin(), cmd.OutOrStdout(), model.NewBoard())
		},
	}
}

func play(in io.Reader, out io.Writer, board *model.BoardState) error {
	fmt.Fprint(out, model.Render(board))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		move, err := model.ParseMove(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if reason := board.Apply(move); reason != model.Legal {
			fmt.Fprintln(out, &model.RejectedMoveError{Move: move, Reason: reason})
			continue
		}
		fmt.Fprint(out, model.Render(board))
	}
	return scanner.Err()
}
