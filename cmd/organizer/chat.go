package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/organizer-agent/internal/app/conversation"
	"github.com/PabloGalante/organizer-agent/internal/domain"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the organizer in the terminal",
		Long: `Talk to the organizer directly in the terminal. Pass a message as
argument for a single response, or run without arguments for an
interactive session.

Examples:
  organizer chat "Add Bob to the group"
  organizer chat                      # interactive mode`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Quiet unless asked otherwise.
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); !verbose {
		if level, _ := cmd.Root().PersistentFlags().GetString("log-level"); level == "" {
			cfg.LogLevel = "warn"
		}
	}
	cfg.LogFormat = "text"
	logger, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	start, err := a.conv.StartSession(ctx, conversation.StartSessionInput{MemberID: a.store.CurrentUserID()})
	if err != nil {
		return err
	}
	sessionID := start.Session.ID

	if len(args) > 0 {
		out, err := a.conv.SendMessage(ctx, conversation.SendMessageInput{SessionID: sessionID, Text: args[0]})
		if err != nil {
			return err
		}
		fmt.Println(out.Reply.Text)
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[36myou>\033[0m ",
		HistoryFile:       historyFile(),
		HistoryLimit:      1000,
		AutoComplete:      chatCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	defer rl.Close()

	fmt.Println()
	fmt.Printf("  \033[1mbot>\033[0m %s\n", start.Welcome.Text)
	fmt.Println("  \033[2mCommands: /help, /members, /assignments, /events, /prefs, /new, /quit\033[0m")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println("\n  Bye!")
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			parts := strings.Fields(strings.ToLower(input))
			switch parts[0] {
			case "/quit", "/exit", "/q":
				fmt.Println("  Bye!")
				return nil
			case "/new":
				next, err := a.conv.StartSession(ctx, conversation.StartSessionInput{MemberID: a.store.CurrentUserID()})
				if err != nil {
					return err
				}
				sessionID = next.Session.ID
				fmt.Println("  \033[33m[new conversation]\033[0m")
			case "/members":
				printMembers(a)
			case "/assignments":
				filter := ""
				if len(parts) > 1 {
					filter = parts[1]
				}
				printAssignments(a, filter)
			case "/events":
				printEvents(a)
			case "/prefs":
				fmt.Printf("  deadlines: %s before\n", a.store.NotificationPreference(domain.CategoryDeadlines))
				fmt.Printf("  events:    %s before\n", a.store.NotificationPreference(domain.CategoryEvents))
			default:
				fmt.Println("  /members             list the group")
				fmt.Println("  /assignments [all|mine|group]")
				fmt.Println("  /events              list the schedule")
				fmt.Println("  /prefs               show reminder preferences")
				fmt.Println("  /new                 start a new conversation")
				fmt.Println("  /quit                exit")
			}
			fmt.Println()
			continue
		}

		out, err := a.conv.SendMessage(ctx, conversation.SendMessageInput{SessionID: sessionID, Text: input})
		if err != nil {
			fmt.Printf("  \033[31merror: %v\033[0m\n\n", err)
			continue
		}
		for _, r := range out.ToolResults {
			fmt.Printf("  \033[2m[%s] %s\033[0m\n", r.ToolName, r.Text)
		}
		fmt.Printf("  \033[1mbot>\033[0m %s\n\n", out.Reply.Text)
	}
}

func chatCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("/quit"),
		readline.PcItem("/new"),
		readline.PcItem("/help"),
		readline.PcItem("/members"),
		readline.PcItem("/assignments",
			readline.PcItem("all"),
			readline.PcItem("mine"),
			readline.PcItem("group"),
		),
		readline.PcItem("/events"),
		readline.PcItem("/prefs"),
	)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".config", "organizer")
	_ = os.MkdirAll(dir, 0o700)
	return filepath.Join(dir, "chat_history")
}

func printMembers(a *app) {
	current := a.store.CurrentUserID()
	for _, m := range a.store.Members() {
		marker := " "
		if m.ID == current {
			marker = "*"
		}
		fmt.Printf("  %s %s <%s>\n", marker, m.Name, m.Email)
	}
}

func printAssignments(a *app, raw string) {
	filter, err := domain.ParseAssignmentFilter(raw)
	if err != nil {
		fmt.Printf("  \033[31m%v\033[0m\n", err)
		return
	}
	list := a.store.ListAssignments(filter)
	if len(list) == 0 {
		fmt.Println("  \033[33mNo assignments.\033[0m")
		return
	}
	for _, x := range list {
		check := "[ ]"
		if x.Completed {
			check = "[x]"
		}
		fmt.Printf("  %s %s  due %s  (%s)\n", check, x.Title,
			x.DueDate.Format(domain.DateLayout), strings.Join(a.store.MemberNames(x.Assignees), ", "))
	}
}

func printEvents(a *app) {
	list := a.store.ListScheduleEvents()
	if len(list) == 0 {
		fmt.Println("  \033[33mNo events.\033[0m")
		return
	}
	for _, e := range list {
		fmt.Printf("  %s %s  %s  (%s)\n", e.Date.Format(domain.DateLayout), e.Time, e.Title,
			strings.Join(a.store.MemberNames(e.Attendees), ", "))
	}
}
