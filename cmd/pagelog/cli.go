package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/pagelog/internal/config"
	"github.com/hpungsan/pagelog/internal/entry"
	"github.com/hpungsan/pagelog/internal/errors"
	"github.com/hpungsan/pagelog/internal/ops"
	"github.com/hpungsan/pagelog/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "pagelog",
		Usage:   "Local page-route annotation store",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(database),
			getCmd(database),
			listCmd(database),
			updateCmd(database),
			deleteCmd(database, cfg),
			attachCmd(database, cfg),
			attachmentCmd(database),
			detachCmd(database),
			countCmd(database),
			exportCmd(database, cfg),
			serveCmd(database, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// createCmd creates the create command.
func createCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new entry",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Required: true, Usage: "Entry type: change_request|bug_report|note"},
			&cli.StringFlag{Name: "title", Required: true, Usage: "Entry title"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Entry description"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "Priority: low|medium|high|critical"},
			&cli.StringFlag{Name: "url", Required: true, Usage: "Full page URL"},
			&cli.StringFlag{Name: "path", Usage: "Page path (defaults to the URL's path component)"},
			&cli.StringFlag{Name: "user-agent", Usage: "Diagnostic user agent string"},
		},
		Action: func(c *cli.Context) error {
			pagePath := c.String("path")
			if pagePath == "" {
				pagePath = entry.NormalizePath(c.String("url"))
			}

			input := ops.CreateInput{
				Type:        entry.Type(c.String("type")),
				Title:       c.String("title"),
				Description: c.String("description"),
				PageURL:     c.String("url"),
				PagePath:    pagePath,
			}
			if p := c.String("priority"); p != "" {
				priority := entry.Priority(p)
				input.Priority = &priority
			}
			if ua := c.String("user-agent"); ua != "" {
				input.UserAgent = &ua
			}

			output, err := ops.Create(database, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch an entry by ID",
		ArgsUsage: "<entry-id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Get(database, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "Filter by page path"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by entry type"},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Include completed entries"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				IncludeComplete: c.Bool("all"),
			}
			if p := c.String("path"); p != "" {
				input.PagePath = &p
			}
			if t := c.String("type"); t != "" {
				typ := entry.Type(t)
				input.Type = &typ
			}

			output, err := ops.List(database, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Apply a partial update to an entry",
		ArgsUsage: "<entry-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "New title"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "New priority"},
			&cli.BoolFlag{Name: "complete", Usage: "Mark complete"},
			&cli.BoolFlag{Name: "reopen", Usage: "Mark incomplete"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{EntryID: c.Args().First()}
			if c.IsSet("title") {
				title := c.String("title")
				input.Title = &title
			}
			if c.IsSet("description") {
				description := c.String("description")
				input.Description = &description
			}
			if c.IsSet("priority") {
				priority := entry.Priority(c.String("priority"))
				input.Priority = &priority
			}
			if c.Bool("complete") {
				done := true
				input.IsComplete = &done
			} else if c.Bool("reopen") {
				done := false
				input.IsComplete = &done
			}

			output, err := ops.Update(database, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an entry and all of its attachments",
		ArgsUsage: "<entry-id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(database, cfg, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// attachCmd creates the attach command.
func attachCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "attach",
		Usage:     "Attach a file to an entry",
		ArgsUsage: "<entry-id> <file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mime-type", Aliases: []string{"m"}, Usage: "MIME type (default application/octet-stream)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: attach <entry-id> <file>"))
			}
			path := c.Args().Get(1)

			data, err := os.ReadFile(path)
			if err != nil {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", path, err)))
			}
			if int64(len(data)) > cfg.MaxAttachmentBytes {
				return outputError(errors.NewInvalidRequest("attachment exceeds maximum size"))
			}

			// Check the owning entry before writing any bytes
			if _, err := ops.Get(database, c.Args().First()); err != nil {
				return outputError(err)
			}

			output, err := ops.AddAttachment(database, cfg, ops.AddAttachmentInput{
				EntryID:  c.Args().First(),
				Name:     baseName(path),
				MimeType: c.String("mime-type"),
				Data:     data,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// attachmentCmd creates the attachment command (fetch bytes).
func attachmentCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "attachment",
		Usage:     "Fetch attachment bytes by ID",
		ArgsUsage: "<attachment-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write bytes to file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return outputError(errors.NewInvalidRequest("attachment id must be an integer"))
			}

			output, err := ops.GetAttachment(database, id)
			if err != nil {
				return outputError(err)
			}

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, output.Data, 0600); err != nil {
					return outputError(errors.NewInternal(err))
				}
				return outputJSON(output.Attachment)
			}

			_, err = os.Stdout.Write(output.Data)
			return err
		},
	}
}

// detachCmd creates the detach command (delete one attachment).
func detachCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "detach",
		Usage:     "Delete an attachment without deleting its entry",
		ArgsUsage: "<attachment-id>",
		Action: func(c *cli.Context) error {
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return outputError(errors.NewInvalidRequest("attachment id must be an integer"))
			}

			output, err := ops.DeleteAttachment(database, id)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// countCmd creates the count command.
func countCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "Show open/total entry counts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "Page path scope (omit for global counts)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CountInput{}
			if p := c.String("path"); p != "" {
				input.PagePath = &p
			}

			output, err := ops.Count(database, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all entries to a JSON snapshot or Markdown report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Export format: json|markdown"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output path (default: exports directory)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(database, cfg, ops.ExportInput{
				Format: ops.ExportFormat(c.String("format")),
				Path:   c.String("out"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command (JSON API server).
func serveCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local JSON API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8641, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(database, cfg, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// outputJSON writes indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.PagelogError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// baseName returns the final path element of a file path.
func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
