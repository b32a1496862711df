package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/navigation"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/reconcile"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// TemplatesCmd lists the built-in templates.
type TemplatesCmd struct{}

func (c *TemplatesCmd) Run(app *App) error {
	all, err := templates.Builtin()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFIELDS\tDESCRIPTION")
	for _, tpl := range all {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", tpl.ID, tpl.Name, len(tpl.Form.Fields), tpl.Description)
	}
	return w.Flush()
}

// NewCmd creates a form, blank or from a template, and saves it.
type NewCmd struct {
	Template    string `help:"Built-in template id." short:"t"`
	Title       string `help:"Form title."`
	Description string `help:"Form description."`
	MultiStep   bool   `help:"Enable multi-step mode."`
}

func (c *NewCmd) Run(ctx context.Context, app *App) error {
	session := builder.NewSession(
		builder.WithRepository(app.Repo),
		builder.WithLogger(app.Logger),
	)
	if c.Template != "" {
		tpl, err := templates.Lookup(c.Template)
		if err != nil {
			return err
		}
		if _, err := session.ApplyTemplate(tpl); err != nil {
			return err
		}
	}

	patch := reconcile.FormPatch{}
	if c.Title != "" {
		patch.Title = &c.Title
	}
	if c.Description != "" {
		patch.Description = &c.Description
	}
	if err := session.UpdateForm(patch); err != nil {
		return err
	}
	if c.MultiStep {
		if err := session.SetMultiStep(true); err != nil {
			return err
		}
	}
	for _, issue := range session.Lint() {
		app.Logger.Warn("formbuilder: field %s: %s", issue.FieldID, issue.Message)
	}
	if err := session.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(app.Out, session.Definition().ID)
	return nil
}

// ListCmd lists saved forms.
type ListCmd struct{}

func (c *ListCmd) Run(ctx context.Context, app *App) error {
	forms, err := app.Repo.ListForms(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tFIELDS\tSTEPS\tUPDATED")
	for _, def := range forms {
		steps := 1
		if def.IsMultiStep {
			steps = len(def.Steps)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", def.ID, def.Title, len(def.Fields), steps, def.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// ShowCmd prints a saved definition.
type ShowCmd struct {
	ID     string `arg:"" help:"Form id."`
	Format string `help:"Output format (json, yaml)." enum:"json,yaml" default:"json"`
}

func (c *ShowCmd) Run(ctx context.Context, app *App) error {
	def, err := app.Repo.LoadForm(ctx, c.ID)
	if err != nil {
		return err
	}
	if c.Format == "yaml" {
		enc := yaml.NewEncoder(app.Out)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return err
		}
		return enc.Close()
	}
	return writeJSON(app, def)
}

// FillCmd fills a saved form interactively and records the submission.
// Aborting keeps the answers as a draft that --resume picks up.
type FillCmd struct {
	ID     string `arg:"" help:"Form id."`
	Resume bool   `help:"Continue from the saved draft of this form."`
}

func (c *FillCmd) Run(ctx context.Context, app *App) error {
	def, err := app.Repo.LoadForm(ctx, c.ID)
	if err != nil {
		return err
	}
	options := []navigation.Option{
		navigation.WithSubmitter(app.Repo),
		navigation.WithLogger(app.Logger),
	}

	var session *navigation.Session
	if c.Resume {
		snap, err := app.Repo.LoadDraft(ctx, def.ID)
		if err != nil {
			return err
		}
		session, err = navigation.Resume(def, snap, options...)
		if err != nil {
			return err
		}
	} else {
		session, err = navigation.New(def, options...)
		if err != nil {
			return err
		}
	}

	driver := app.Prompts
	if driver == nil {
		driver = tui.NewSurveyDriver(app.Out)
	}
	filler := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithLogger(app.Logger),
	)
	submission, err := filler.Fill(ctx, session)
	if errors.Is(err, tui.ErrAborted) {
		snap, snapErr := session.Snapshot()
		if snapErr != nil {
			return errors.Join(err, snapErr)
		}
		if saveErr := app.Repo.SaveDraft(ctx, snap); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		fmt.Fprintf(app.Out, "Draft saved; continue with: formbuilder fill %s --resume\n", def.ID)
		return err
	}
	if err != nil {
		return err
	}
	if err := app.Repo.DeleteDraft(ctx, def.ID); err != nil {
		app.Logger.Warn("formbuilder: drop draft of form %s: %v", def.ID, err)
	}
	fmt.Fprintf(app.Out, "Submitted %s at %s\n", submission.FormID, submission.SubmittedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// SubmissionsCmd prints the submissions of a form.
type SubmissionsCmd struct {
	ID string `arg:"" help:"Form id."`
}

func (c *SubmissionsCmd) Run(ctx context.Context, app *App) error {
	subs, err := app.Repo.Submissions(ctx, c.ID)
	if err != nil {
		return err
	}
	return writeJSON(app, subs)
}

// SchemaCmd prints an OpenAPI document for the selected (or all) forms.
type SchemaCmd struct {
	IDs   []string `arg:"" optional:"" help:"Form ids; all saved forms when omitted."`
	Title string   `help:"Document title." default:"Form submissions"`
}

func (c *SchemaCmd) Run(ctx context.Context, app *App) error {
	var defs []*model.FormDefinition
	if len(c.IDs) == 0 {
		all, err := app.Repo.ListForms(ctx)
		if err != nil {
			return err
		}
		defs = all
	} else {
		for _, id := range c.IDs {
			def, err := app.Repo.LoadForm(ctx, id)
			if err != nil {
				return err
			}
			defs = append(defs, def)
		}
	}
	doc, err := openapi.Document(ctx, c.Title, defs)
	if err != nil {
		return err
	}
	return writeJSON(app, doc)
}

// LintCmd reports rule problems of a saved form.
type LintCmd struct {
	ID string `arg:"" help:"Form id."`
}

func (c *LintCmd) Run(ctx context.Context, app *App) error {
	def, err := app.Repo.LoadForm(ctx, c.ID)
	if err != nil {
		return err
	}
	issues := validation.Lint(def)
	if len(issues) == 0 {
		fmt.Fprintln(app.Out, "no issues")
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintf(app.Out, "%s: %s\n", issue.FieldID, issue.Message)
	}
	return fmt.Errorf("lint: %d issue(s) in form %s", len(issues), def.ID)
}

func writeJSON(app *App, value any) error {
	enc := json.NewEncoder(app.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
