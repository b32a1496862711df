package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/logging"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/navigation"
)

// Repository persists definitions and submissions over a Store.
type Repository struct {
	store  Store
	logger logging.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Repository) {
		r.logger = logging.OrNop(logger)
	}
}

// NewRepository wraps store.
func NewRepository(store Store, options ...Option) *Repository {
	r := &Repository{store: store, logger: logging.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// SaveForm writes def and adds its id to the form index when missing.
func (r *Repository) SaveForm(ctx context.Context, def *model.FormDefinition) error {
	if def == nil || def.ID == "" {
		return model.NewError(model.ErrInvalidReference, "form definition with an id is required", nil, nil)
	}
	payload, err := model.Marshal(def)
	if err != nil {
		return unavailable("encode form", def.ID, err)
	}
	if err := r.store.Put(ctx, FormKey(def.ID), payload); err != nil {
		return unavailable("write form", def.ID, err)
	}

	ids, err := r.FormIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == def.ID {
			r.logger.Debug("storage: form %s saved", def.ID)
			return nil
		}
	}
	ids = append(ids, def.ID)
	index, err := json.Marshal(ids)
	if err != nil {
		return unavailable("encode form index", def.ID, err)
	}
	if err := r.store.Put(ctx, FormListKey, index); err != nil {
		return unavailable("write form index", def.ID, err)
	}
	r.logger.Debug("storage: form %s saved and indexed", def.ID)
	return nil
}

// LoadForm reads the definition stored for formID.
func (r *Repository) LoadForm(ctx context.Context, formID string) (*model.FormDefinition, error) {
	payload, ok, err := r.store.Get(ctx, FormKey(formID))
	if err != nil {
		return nil, unavailable("read form", formID, err)
	}
	if !ok {
		return nil, model.NewError(model.ErrNotFound, fmt.Sprintf("form %q not found", formID), nil, map[string]any{
			"form_id": formID,
		})
	}
	def, err := model.Unmarshal(payload)
	if err != nil {
		return nil, unavailable("decode form", formID, err)
	}
	return def, nil
}

// FormIDs returns the form index in save order.
func (r *Repository) FormIDs(ctx context.Context) ([]string, error) {
	payload, ok, err := r.store.Get(ctx, FormListKey)
	if err != nil {
		return nil, unavailable("read form index", "", err)
	}
	if !ok {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil, unavailable("decode form index", "", err)
	}
	return ids, nil
}

// ListForms loads every indexed form. Indexed ids without a stored
// definition are skipped.
func (r *Repository) ListForms(ctx context.Context) ([]*model.FormDefinition, error) {
	ids, err := r.FormIDs(ctx)
	if err != nil {
		return nil, err
	}
	forms := make([]*model.FormDefinition, 0, len(ids))
	for _, id := range ids {
		def, err := r.LoadForm(ctx, id)
		if model.HasCode(err, model.ErrCodeNotFound) {
			r.logger.Warn("storage: indexed form %s has no definition", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, def)
	}
	return forms, nil
}

// AppendSubmission adds submission to the form's submission array.
func (r *Repository) AppendSubmission(ctx context.Context, submission model.Submission) error {
	if submission.FormID == "" {
		return model.NewError(model.ErrInvalidReference, "submission form id is required", nil, nil)
	}
	existing, err := r.Submissions(ctx, submission.FormID)
	if err != nil {
		return err
	}
	existing = append(existing, submission)
	payload, err := json.Marshal(existing)
	if err != nil {
		return unavailable("encode submissions", submission.FormID, err)
	}
	if err := r.store.Put(ctx, SubmissionsKey(submission.FormID), payload); err != nil {
		return unavailable("write submissions", submission.FormID, err)
	}
	r.logger.Info("storage: submission %d recorded for form %s", len(existing), submission.FormID)
	return nil
}

// Submit records a submission. It lets a Repository serve as the
// navigation submitter.
func (r *Repository) Submit(ctx context.Context, submission model.Submission) error {
	return r.AppendSubmission(ctx, submission)
}

// Submissions returns the submissions of formID in arrival order.
func (r *Repository) Submissions(ctx context.Context, formID string) ([]model.Submission, error) {
	payload, ok, err := r.store.Get(ctx, SubmissionsKey(formID))
	if err != nil {
		return nil, unavailable("read submissions", formID, err)
	}
	if !ok {
		return []model.Submission{}, nil
	}
	var out []model.Submission
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, unavailable("decode submissions", formID, err)
	}
	for i := range out {
		out[i].FormID = formID
	}
	return out, nil
}

// SaveDraft stores the fill progress of a form, replacing any earlier draft.
func (r *Repository) SaveDraft(ctx context.Context, snap navigation.Snapshot) error {
	if snap.FormID == "" {
		return model.NewError(model.ErrInvalidReference, "draft needs a form id", nil, nil)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return unavailable("encode draft", snap.FormID, err)
	}
	if err := r.store.Put(ctx, DraftKey(snap.FormID), payload); err != nil {
		return unavailable("write draft", snap.FormID, err)
	}
	r.logger.Debug("storage: draft of form %s saved at step %d", snap.FormID, snap.StepIndex)
	return nil
}

// LoadDraft returns the saved fill progress of formID, failing with
// ErrNotFound when there is none.
func (r *Repository) LoadDraft(ctx context.Context, formID string) (navigation.Snapshot, error) {
	payload, ok, err := r.store.Get(ctx, DraftKey(formID))
	if err != nil {
		return navigation.Snapshot{}, unavailable("read draft", formID, err)
	}
	if !ok {
		return navigation.Snapshot{}, model.NewError(model.ErrNotFound,
			fmt.Sprintf("no draft for form %q", formID), nil, map[string]any{"form_id": formID})
	}
	var snap navigation.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return navigation.Snapshot{}, unavailable("decode draft", formID, err)
	}
	return snap, nil
}

// DeleteDraft drops the saved fill progress of formID, if any.
func (r *Repository) DeleteDraft(ctx context.Context, formID string) error {
	if err := r.store.Delete(ctx, DraftKey(formID)); err != nil {
		return unavailable("delete draft", formID, err)
	}
	return nil
}

func unavailable(op, formID string, source error) error {
	metadata := map[string]any{"operation": op}
	if formID != "" {
		metadata["form_id"] = formID
	}
	return model.NewError(model.ErrStorageUnavailable, fmt.Sprintf("storage: %s failed", op), source, metadata)
}
