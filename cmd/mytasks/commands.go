package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mytasks/internal/app"
	"mytasks/internal/config"
	"mytasks/internal/report"
	"mytasks/internal/task"
	"mytasks/internal/view"
)

var errUsage = errors.New("usage")

type cli struct {
	ctrl *app.Controller
	cfg  config.Config
	in   io.Reader
	out  io.Writer
	err  io.Writer
}

func newCLI(ctrl *app.Controller, cfg config.Config) *cli {
	return &cli{ctrl: ctrl, cfg: cfg, in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

func (c *cli) run(command string, args []string) error {
	switch command {
	case "add":
		return c.add(args)
	case "list":
		return c.list(args)
	case "status":
		return c.status(args)
	case "export":
		return c.export(args)
	case "import":
		return c.importFile(args)
	case "report":
		return c.report(args)
	case "help", "-h", "--help":
		c.printHelp()
		return nil
	default:
		c.printHelp()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.err)
	return fs
}

func (c *cli) add(args []string) error {
	fs := c.flags("add")
	date := fs.String("date", c.ctrl.Today().String(), "Scheduled date (YYYY-MM-DD)")
	end := fs.String("end", "", "Due date (YYYY-MM-DD)")
	title := fs.String("title", "", "Task title")
	note := fs.String("note", "", "Free-form note")
	priority := fs.String("priority", "medium", "Priority (high|medium|low)")
	category := fs.String("category", "", "Category (work|personal|health|learning|finance|other)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" && fs.NArg() > 0 {
		*title = strings.Join(fs.Args(), " ")
	}

	p, ok := task.ParsePriority(*priority)
	if !ok {
		return fmt.Errorf("unknown priority %q", *priority)
	}
	cat, ok := task.ParseCategory(*category)
	if !ok {
		return fmt.Errorf("unknown category %q", *category)
	}
	added, err := c.ctrl.Add(task.Fields{Date: *date, EndDate: *end, Title: *title, Note: *note, Priority: p, Category: cat})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added task with ID %d\n", added.ID)
	return nil
}

func (c *cli) list(args []string) error {
	fs := c.flags("list")
	filter := fs.String("filter", c.cfg.DefaultFilter, "Filter (all|today|overdue|not-started|in-progress|done)")
	query := fs.String("q", "", "Search title, note and category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	mode, ok := task.ParseFilterMode(*filter)
	if !ok {
		return fmt.Errorf("unknown filter %q", *filter)
	}

	visible := c.ctrl.Visible(mode, *query)
	if len(visible) == 0 {
		fmt.Fprintln(c.out, view.EmptyState)
		return nil
	}
	today := c.ctrl.Today()
	for _, b := range view.Group(visible) {
		fmt.Fprintf(c.out, "%s (%s)\n", view.DateLabel(b.Date, today), b.Date)
		for _, t := range b.Tasks {
			fmt.Fprintf(c.out, "  %d: %s [%s] %s", t.ID, t.Title, t.Status.Label(), t.Priority)
			if t.Category != task.CategoryNone {
				fmt.Fprintf(c.out, " %s", t.Category)
			}
			if !t.EndDate.IsZero() {
				fmt.Fprintf(c.out, " due %s", t.EndDate)
				if t.IsOverdue(today) {
					fmt.Fprint(c.out, " (overdue)")
				}
			}
			fmt.Fprintln(c.out)
		}
	}
	s := view.ComputeStats(c.ctrl.Tasks(), today)
	fmt.Fprintf(c.out, "\n%d tasks, %d done, %d overdue, %d%% complete\n", s.Total, s.Done, s.Overdue, s.Completion)
	return nil
}

func (c *cli) status(args []string) error {
	fs := c.flags("status")
	id := fs.Int64("id", 0, "Task ID")
	value := fs.String("set", "", "New status (not-started|in-progress|done)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 && fs.NArg() == 2 {
		n, err := parseID(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid task id %q", fs.Arg(0))
		}
		*id, *value = n, fs.Arg(1)
	}
	if *id == 0 || *value == "" {
		return fmt.Errorf("%w: status -id ID -set STATUS", errUsage)
	}
	s, ok := task.ParseStatus(*value)
	if !ok {
		return fmt.Errorf("unknown status %q", *value)
	}
	found, err := c.ctrl.UpdateStatus(*id, s)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %d not found", *id)
	}
	fmt.Fprintf(c.out, "Task %d is now %s\n", *id, s.Label())
	return nil
}

func (c *cli) export(args []string) error {
	fs := c.flags("export")
	dir := fs.String("dir", c.cfg.ExportDir, "Directory for the export file")
	stdout := fs.Bool("stdout", false, "Write JSON to standard output instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *stdout {
		data, _, err := c.ctrl.Export()
		if err != nil {
			return err
		}
		_, err = c.out.Write(append(data, '\n'))
		return err
	}
	path, err := c.ctrl.ExportTo(*dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %d tasks to %s\n", len(c.ctrl.Tasks()), path)
	return nil
}

func (c *cli) importFile(args []string) error {
	fs := c.flags("import")
	file := fs.String("file", "", "JSON export to import")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" && fs.NArg() > 0 {
		*file = fs.Arg(0)
	}
	if *file == "" {
		return fmt.Errorf("%w: import -file PATH [-yes]", errUsage)
	}

	imported, err := c.ctrl.ImportFile(*file)
	if err != nil {
		return err
	}
	if !*yes && !c.confirm(fmt.Sprintf("Import %d tasks?", len(imported))) {
		fmt.Fprintln(c.out, "Import cancelled")
		return nil
	}
	if err := c.ctrl.Import(imported); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Imported %d tasks\n", len(imported))
	return nil
}

func (c *cli) report(args []string) error {
	fs := c.flags("report")
	out := fs.String("o", "", "Output PDF path")
	filter := fs.String("filter", c.cfg.DefaultFilter, "Filter (all|today|overdue|not-started|in-progress|done)")
	query := fs.String("q", "", "Search title, note and category")
	font := fs.String("font", "", "UTF-8 TrueType font for non-Latin text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	mode, ok := task.ParseFilterMode(*filter)
	if !ok {
		return fmt.Errorf("unknown filter %q", *filter)
	}
	path := *out
	if path == "" {
		path = filepath.Join(c.cfg.ExportDir, "mytasks-report-"+c.ctrl.Today().String()+".pdf")
	}

	today := c.ctrl.Today()
	data := report.Data{
		Tasks:       c.ctrl.Visible(mode, *query),
		Stats:       view.ComputeStats(c.ctrl.Tasks(), today),
		Today:       today,
		Filter:      mode,
		Query:       *query,
		GeneratedAt: c.ctrl.Now(),
	}
	if err := report.NewGenerator(*font).WriteFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Report written to %s\n", path)
	return nil
}

func (c *cli) confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(c.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *cli) printHelp() {
	fmt.Fprintln(c.err, `Usage: mytasks [command] [options]

Without a command the interactive task list starts.

Commands:
  add     -title TEXT [-date D] [-end D] [-note TEXT] [-priority P] [-category C]
  list    [-filter MODE] [-q TEXT]
  status  -id ID -set not-started|in-progress|done  (or: status ID STATUS)
  export  [-dir DIR] [-stdout]
  import  -file PATH [-yes]
  report  [-o FILE.pdf] [-filter MODE] [-q TEXT] [-font FILE.ttf]`)
}

func parseID(v string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
}
