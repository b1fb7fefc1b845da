package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperchat/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat [corpus]",
	Short: "Chat with an ingested corpus",
	Long: `Starts an interactive session against the named corpus. Each question
is answered from retrieved excerpts and the answer streams to the
terminal as it is generated. Type "exit" or press Ctrl-D to leave.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	corpus := args[0]

	if err := ensureServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	cmd.Printf("Chatting with %q. Type \"exit\" to leave.\n", corpus)

	var history domain.History
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("\n> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		history = append(history, domain.ChatMessage{
			Role:    domain.RoleUser,
			Content: question,
		})

		answer, err := streamAnswer(ctx, cmd, corpus, history)
		if err != nil {
			// Drop the failed turn so the history stays valid.
			history = history[:len(history)-1]
			cmd.PrintErrf("error: %v\n", err)
			continue
		}

		history = append(history, domain.ChatMessage{
			Role:    domain.RoleAssistant,
			Content: answer,
		})
	}
}

// streamAnswer runs one chat turn, printing fragments as they arrive,
// and returns the full answer for the history.
func streamAnswer(ctx context.Context, cmd *cobra.Command, corpus string, history domain.History) (string, error) {
	stream, err := chatService.Chat(ctx, corpus, history)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			cmd.Println()
			return sb.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("answer stream interrupted: %w", err)
		}
		cmd.Print(fragment)
		sb.WriteString(fragment)
	}
}
