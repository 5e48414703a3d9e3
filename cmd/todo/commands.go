package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/web3-frozen/todo-board/internal/app"
	"github.com/web3-frozen/todo-board/internal/client"
	"github.com/web3-frozen/todo-board/internal/config"
	"github.com/web3-frozen/todo-board/internal/i18n"
	"github.com/web3-frozen/todo-board/internal/model"
	"github.com/web3-frozen/todo-board/internal/prefs"
	"github.com/web3-frozen/todo-board/internal/ui"
)

type options struct {
	apiURL    string
	prefsFile string
	logFile   string

	cfg    config.Client
	prefs  prefs.Prefs
	logger *slog.Logger
	logOut io.Closer
	client *client.Client
	tr     *i18n.Translator
	theme  ui.Theme
}

// init layers flags over the environment and opens the shared resources.
func (o *options) init() error {
	o.cfg = config.LoadClient()
	if o.apiURL != "" {
		o.cfg.APIURL = strings.TrimRight(o.apiURL, "/")
	}
	if o.prefsFile != "" {
		o.cfg.PrefsFile = o.prefsFile
	}
	if o.logFile != "" {
		o.cfg.LogFile = o.logFile
	}

	o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if o.cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(o.cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(o.cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		o.logOut = f
		o.logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	p, err := prefs.Load(o.cfg.PrefsFile)
	if err != nil {
		o.logger.Warn("using default preferences", "error", err)
	}
	o.prefs = p
	o.tr = i18n.New(p.Language)
	o.theme = ui.ThemeFor(p.DarkMode)
	o.client = client.New(o.cfg.APIURL, nil)
	return nil
}

func (o *options) close() {
	if o.logOut != nil {
		o.logOut.Close()
	}
}

func runBoard(ctx context.Context, o *options) error {
	ctrl := app.NewController(o.client, o.logger)
	m := ui.New(ctx, ctrl, o.prefs, o.cfg.PrefsFile, o.logger)
	o.logger.Info("board starting", "api", o.cfg.APIURL)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func newListCommand(o *options) *cobra.Command {
	var filter, query string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Short:   "Print todos in board order",
		Long:    "Print todos. --filter is one of all, active, completed, starred, high, today, overdue.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := app.NewController(o.client, o.logger)
			var err error
			switch {
			case query != "":
				err = ctrl.Search(cmd.Context(), query)
			case filter != "":
				err = ctrl.ApplyFilter(cmd.Context(), app.Filter(filter))
			default:
				err = ctrl.Load(cmd.Context())
			}
			if err != nil {
				return o.failure(ctrl, err)
			}

			todos := ctrl.State().Todos
			out := cmd.OutOrStdout()
			if len(todos) == 0 {
				fmt.Fprintln(out, o.tr.T("noTodos"))
				return nil
			}
			now := time.Now()
			for _, td := range todos {
				fmt.Fprintf(out, "%4d %s\n", td.ID, ui.RenderItem(o.theme, o.tr, td, false, now))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "server-side filter")
	cmd.Flags().StringVarP(&query, "search", "s", "", "free-text search")
	return cmd
}

func newAddCommand(o *options) *cobra.Command {
	var (
		req      model.CreateTodoRequest
		priority string
		due      string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Args:  cobra.MinimumNArgs(1),
		Short: "Create a todo",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Title = strings.Join(args, " ")
			p, ok := model.ParsePriority(priority)
			if !ok {
				return fmt.Errorf("priority must be LOW, MEDIUM, or HIGH")
			}
			req.Priority = p
			dueDate, err := ui.ParseDueDate(due, time.Local)
			if err != nil {
				return fmt.Errorf("%s", o.tr.T("invalidDueDate"))
			}
			req.DueDate = dueDate

			ctrl := app.NewController(o.client, o.logger)
			if err := ctrl.Create(cmd.Context(), req); err != nil {
				return o.failure(ctrl, err)
			}
			created := ctrl.State().Todos[0]
			fmt.Fprintf(cmd.OutOrStdout(), "%4d %s\n", created.ID, ui.RenderItem(o.theme, o.tr, created, false, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "LOW, MEDIUM or HIGH")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringSliceVarP(&req.Tags, "tag", "t", nil, "tag (repeatable)")
	cmd.Flags().BoolVar(&req.Starred, "star", false, "star the new todo")
	return cmd
}

func newStarCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "star <id>",
		Args:  cobra.ExactArgs(1),
		Short: "Toggle the star on a todo",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			todo, err := o.client.ToggleStar(cmd.Context(), id)
			if err != nil {
				o.logger.Error("toggle star", "id", id, "error", err)
				return fmt.Errorf("%s", o.tr.T(app.FailStar))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%4d %s\n", todo.ID, ui.RenderItem(o.theme, o.tr, *todo, false, time.Now()))
			return nil
		},
	}
}

func newStatsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Args:  cobra.NoArgs,
		Short: "Print the statistics panel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := o.client.Statistics(cmd.Context())
			if err != nil {
				o.logger.Error("statistics", "error", err)
				return fmt.Errorf("%s", o.tr.T(app.FailStats))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStats(o.theme, o.tr, stats))
			return nil
		},
	}
}

func newTagsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Args:  cobra.NoArgs,
		Short: "Print every tag in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := o.client.Tags(cmd.Context())
			if err != nil {
				o.logger.Error("tags", "error", err)
				return fmt.Errorf("%s", o.tr.T(app.FailTags))
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

// failure turns a controller error into its translated message; the cause
// is already in the log.
func (o *options) failure(ctrl *app.Controller, err error) error {
	if key := ctrl.State().Failure; key != "" {
		return fmt.Errorf("%s", o.tr.T(key))
	}
	return err
}
