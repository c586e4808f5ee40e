// Package cli is the terminal front-end for the task list.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/urfave/cli"

	"tasklist/app/config"
	"tasklist/app/controllers"
	"tasklist/app/export"
	"tasklist/app/models"
	"tasklist/app/prompt"
	"tasklist/app/routes"
	"tasklist/app/services"
	"tasklist/app/storage"
)

// runner holds what the commands share once Before has run.
type runner struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg  *config.Config
	log  logr.Logger
	term *prompt.Terminal
	slot storage.Slot
	svc  *services.TaskService
}

// NewApp builds the command line application. Questions are read from in;
// results go to out and prompts, alerts and logs to errOut.
func NewApp(in io.Reader, out, errOut io.Writer) *cli.App {
	r := &runner{in: in, out: out, errOut: errOut, log: logr.Discard()}

	app := cli.NewApp()
	app.Name = "tasklist"
	app.Usage = "keep a prioritized task list"
	app.Version = "1.0.0"
	app.Writer = out
	app.ErrWriter = errOut
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "path to config.json", EnvVar: "TASKLIST_CONFIG"},
		cli.StringFlag{Name: "backend", Usage: "storage backend: file, memory, neo4j or mysql"},
		cli.StringFlag{Name: "data-dir", Usage: "directory for the file backend"},
		cli.BoolFlag{Name: "verbose", Usage: "log operations to stderr"},
	}
	app.Before = r.setup
	app.After = r.teardown
	app.Commands = []cli.Command{
		{
			Name:      "add",
			Usage:     "add a task",
			ArgsUsage: "TEXT...",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "priority, p", Value: string(models.PriorityLow), Usage: "Low, Medium or High"},
				cli.StringFlag{Name: "deadline, d", Usage: "due date, YYYY-MM-DD"},
			},
			Action: r.add,
		},
		{
			Name:    "list",
			Aliases: []string{"ls"},
			Usage:   "show tasks",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "filter, f", Value: string(models.FilterAll), Usage: "All, Completed or Pending"},
				cli.StringFlag{Name: "sort, s", Value: string(models.SortByDate), Usage: "Date or Priority"},
			},
			Action: r.list,
		},
		{
			Name:      "toggle",
			Aliases:   []string{"done", "undo"},
			Usage:     "flip a task between pending and completed",
			ArgsUsage: "ID",
			Action:    r.toggle,
		},
		{
			Name:      "edit",
			Usage:     "replace the text of a task",
			ArgsUsage: "ID TEXT...",
			Action:    r.edit,
		},
		{
			Name:      "rm",
			Aliases:   []string{"delete"},
			Usage:     "delete a task after confirmation",
			ArgsUsage: "ID",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "yes, y", Usage: "do not ask for confirmation"},
			},
			Action: r.remove,
		},
		{
			Name:  "export",
			Usage: "write the task view as json, csv or pdf",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "format", Value: "json", Usage: strings.Join(export.Formats, ", ")},
				cli.StringFlag{Name: "out, o", Usage: "output file, stdout when empty"},
				cli.StringFlag{Name: "filter, f", Value: string(models.FilterAll)},
				cli.StringFlag{Name: "sort, s", Value: string(models.SortByDate)},
			},
			Action: r.export,
		},
		{
			Name:  "config",
			Usage: "manage the config file",
			Subcommands: []cli.Command{
				{
					Name:  "init",
					Usage: "write the effective config, flags and environment included",
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
					},
					Action: r.configInit,
				},
			},
		},
		{
			Name:  "serve",
			Usage: "serve the task API over HTTP",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "addr", Usage: "listen address, overrides the config"},
			},
			Action: r.serve,
		},
	}
	return app
}

func (r *runner) setup(c *cli.Context) error {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return err
	}
	if c.GlobalIsSet("backend") {
		cfg.Backend = c.GlobalString("backend")
	}
	if c.GlobalIsSet("data-dir") {
		cfg.DataDir = c.GlobalString("data-dir")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg = cfg

	if c.GlobalBool("verbose") {
		r.log = stdr.New(log.New(r.errOut, "", log.LstdFlags))
		stdr.SetVerbosity(1)
	}
	r.term = prompt.NewTerminal(r.in, r.errOut)
	return nil
}

// open loads the task collection. Commands call it lazily so that
// "help" never touches storage.
func (r *runner) open(ctx context.Context) error {
	slot, err := config.OpenSlot(ctx, r.cfg)
	if err != nil {
		return err
	}
	r.slot = slot
	r.svc = services.NewTaskService(slot, services.WithLogger(r.log), services.WithAlerter(r.term))
	return r.svc.Load(ctx)
}

func (r *runner) teardown(c *cli.Context) error {
	if r.slot == nil {
		return nil
	}
	return r.slot.Close(context.Background())
}

func parseID(c *cli.Context) (int64, error) {
	if c.NArg() < 1 {
		return 0, errors.New("missing task id")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", c.Args().First())
	}
	return id, nil
}

func (r *runner) add(c *cli.Context) error {
	ctx := context.Background()
	priority, err := models.ParsePriority(c.String("priority"))
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	draft := models.Draft{
		Text:     strings.Join(c.Args(), " "),
		Priority: priority,
		Deadline: c.String("deadline"),
	}
	task, err := r.svc.CreateTask(ctx, &draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Added task %d\n", task.ID)
	return nil
}

func (r *runner) list(c *cli.Context) error {
	ctx := context.Background()
	filter, err := models.ParseFilter(c.String("filter"))
	if err != nil {
		return err
	}
	by, err := models.ParseSortKey(c.String("sort"))
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRIORITY\tDEADLINE\tSTATUS\tTEXT")
	for _, t := range r.svc.View(filter, by) {
		status := "pending"
		if t.Completed {
			status = "done"
		}
		deadline := t.Deadline
		if deadline == "" {
			deadline = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Priority, deadline, status, t.Text)
	}
	return w.Flush()
}

func (r *runner) toggle(c *cli.Context) error {
	ctx := context.Background()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	task, ok, err := r.svc.ToggleTask(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(r.out, "No task %d\n", id)
		return nil
	}
	state := "pending"
	if task.Completed {
		state = "completed"
	}
	fmt.Fprintf(r.out, "Task %d is %s\n", id, state)
	return nil
}

func (r *runner) edit(c *cli.Context) error {
	ctx := context.Background()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	_, ok, err := r.svc.UpdateTaskText(ctx, id, strings.Join(c.Args().Tail(), " "))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(r.out, "No task %d\n", id)
		return nil
	}
	fmt.Fprintf(r.out, "Updated task %d\n", id)
	return nil
}

func (r *runner) remove(c *cli.Context) error {
	ctx := context.Background()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	var confirm prompt.Confirmer = r.term
	if c.Bool("yes") {
		confirm = prompt.Always(true)
	}
	if _, ok := r.svc.GetTaskByID(id); !ok {
		fmt.Fprintf(r.out, "No task %d\n", id)
		return nil
	}
	removed, err := r.svc.DeleteTask(ctx, id, confirm)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(r.out, "Deleted task %d\n", id)
	} else {
		fmt.Fprintln(r.out, "Kept task", id)
	}
	return nil
}

func (r *runner) export(c *cli.Context) error {
	ctx := context.Background()
	filter, err := models.ParseFilter(c.String("filter"))
	if err != nil {
		return err
	}
	by, err := models.ParseSortKey(c.String("sort"))
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	body, err := export.Export(r.svc.View(filter, by), c.String("format"))
	if err != nil {
		return err
	}
	if path := c.String("out"); path != "" {
		return os.WriteFile(path, body, 0600)
	}
	_, err = r.out.Write(body)
	return err
}

func (r *runner) configInit(c *cli.Context) error {
	path := c.GlobalString("config")
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.Save(path, r.cfg); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Wrote %s\n", path)
	return nil
}

func (r *runner) serve(c *cli.Context) error {
	ctx := context.Background()
	if err := r.open(ctx); err != nil {
		return err
	}
	addr := r.cfg.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	router := routes.NewRouter(controllers.NewTaskController(r.svc), r.log)
	fmt.Fprintf(r.out, "Server is running on http://%s (backend %s)\n", addr, r.cfg.Backend)
	return http.ListenAndServe(addr, router)
}
