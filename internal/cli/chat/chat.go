package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
)

type ChatCmd struct {
	Message []string `arg:"" optional:"" help:"Message for the assistant."`
	History bool     `short:"H" help:"Print the saved conversation."`
	Limit   int      `short:"n" help:"Number of saved messages to print." default:"20"`
	Clear   bool     `help:"Delete the saved conversation."`
}

func (c *ChatCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireStudent()
	if err != nil {
		return err
	}
	id := sess.User.ID

	switch {
	case c.Clear:
		if err := ctx.Store.ClearChatHistory(id); err != nil {
			return err
		}
		ctx.Println("✓ Conversation cleared")
		return nil
	case c.History:
		msgs, err := ctx.Store.GetChatHistory(id, c.Limit)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			ctx.Println(render.Muted("No saved conversation."))
			return nil
		}
		for _, m := range msgs {
			printMessage(ctx, m)
		}
		return nil
	}

	text := strings.TrimSpace(strings.Join(c.Message, " "))
	if text == "" {
		return errors.New("message is required, e.g. neurogrowth chat \"how do I avoid burnout?\"")
	}

	reply, err := cli.Submit(ctx, func(rctx context.Context) (string, error) {
		return ctx.Client.Assistant.Chat(rctx, id, text)
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range []models.ChatMessage{
		{StudentID: id, Role: models.ChatRoleUser, Content: text, CreatedAt: now},
		{StudentID: id, Role: models.ChatRoleAssistant, Content: reply, CreatedAt: now},
	} {
		if _, err := ctx.Store.AppendChatMessage(m); err != nil {
			logger.Warn("Failed to save chat message", "error", err)
		}
	}
	ctx.Println(reply)
	return nil
}

func printMessage(ctx *cli.Context, m models.ChatMessage) {
	who := "AI"
	if m.Role == models.ChatRoleUser {
		who = "You"
	}
	ctx.Printf("%s %s\n", render.Title(who+":"), m.Content)
}
