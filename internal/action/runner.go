// Package action runs user mutations against the API with one protocol: guard
// the control, make the call, reload, notify, and always release the control.
package action

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/idilsaglam/dreams/internal/cache"
	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/model"
	"github.com/idilsaglam/dreams/internal/notify"
)

// ErrNoFiles is returned by UploadPhotos when nothing was selected.
var ErrNoFiles = errors.New("no photos selected")

const (
	msgAdded        = "Dream added successfully! ✨"
	msgAddFailed    = "Failed to add dream"
	msgUpdated      = "Dream updated successfully! ✏️"
	msgUpdateFailed = "Failed to update dream"
	msgDeleted      = "Dream deleted"
	msgDeleteFailed = "Failed to delete dream"
	msgCompleted    = "Dream completed! 🎉"
	msgPending      = "Dream marked as pending"
	msgToggleFailed = "Failed to update status"
	msgNoPhotos     = "Please select at least one photo"
	msgUploadFailed = "Failed to upload photos"
	msgPhotoDeleted = "Photo deleted"
	msgPhotoDelFail = "Failed to delete photo"
)

// Result is what a front end needs to repaint after an action.
type Result struct {
	// Err is nil only when the mutation itself succeeded.
	Err error
	// Toast is the notification raised for this action, if any.
	Toast *notify.Toast
	// Items is the reloaded list; nil when no reload happened or it failed.
	Items []model.Item
	// Stats is set when stats were reloaded successfully.
	Stats *model.Stats
	// CloseModal tells the caller to dismiss the modal that triggered the action.
	CloseModal bool
	// RollbackChecked carries the pre-click checkbox state after a failed toggle.
	RollbackChecked *bool
	// Uploaded and Failed tally per-file upload outcomes.
	Uploaded, Failed int
}

// Progress reports upload progress before each file is sent (done is 1-based).
type Progress func(done, total int)

type Runner struct {
	client Client
	loader *Loader
	notes  Notifier
	guard  *Guard
	names  model.Names
}

func NewRunner(client Client, items *cache.Items, notes Notifier, names model.Names) *Runner {
	return &Runner{
		client: client,
		loader: NewLoader(client, items, notes),
		notes:  notes,
		guard:  NewGuard(),
		names:  names,
	}
}

func (r *Runner) Loader() *Loader    { return r.loader }
func (r *Runner) Guard() *Guard      { return r.guard }
func (r *Runner) Names() model.Names { return r.names }

func (r *Runner) success(res *Result, msg string) {
	t := r.notes.Success(msg)
	res.Toast = &t
}

func (r *Runner) failure(res *Result, msg string, err error) {
	t := r.notes.Error(msg)
	res.Toast = &t
	res.Err = err
}

// reload refreshes items, and stats too when counts may have changed. It runs
// after the mutation's request has completed, so reads from before the write
// are invalidated first.
func (r *Runner) reload(ctx context.Context, res *Result, withStats bool) {
	r.loader.Invalidate()
	if items, err := r.loader.LoadItems(ctx); err == nil {
		res.Items = items
	}
	if withStats {
		if st, err := r.loader.LoadStats(ctx); err == nil {
			res.Stats = &st
		}
	}
}

// AddItem creates a dream. Validation failures return before any request.
func (r *Runner) AddItem(ctx context.Context, description, addedBy string) (res Result) {
	desc, err := model.ValidateDescription(description)
	if err != nil {
		return Result{Err: err}
	}
	by, err := r.names.Validate(addedBy)
	if err != nil {
		return Result{Err: err}
	}
	release, err := r.guard.Acquire(AddKey())
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	if _, err := r.client.CreateItem(ctx, model.NewItem{Description: desc, AddedBy: by}); err != nil {
		logger.LogError("adding item: %v", err)
		r.failure(&res, msgAddFailed, err)
		return res
	}
	res.CloseModal = true
	r.reload(ctx, &res, true)
	r.success(&res, msgAdded)
	return res
}

// UpdateItem rewrites description and author.
func (r *Runner) UpdateItem(ctx context.Context, id int64, description, addedBy string) (res Result) {
	desc, err := model.ValidateDescription(description)
	if err != nil {
		return Result{Err: err}
	}
	by, err := r.names.Validate(addedBy)
	if err != nil {
		return Result{Err: err}
	}
	release, err := r.guard.Acquire(EditKey(id))
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	patch := model.ItemPatch{Description: &desc, AddedBy: &by}
	if _, err := r.client.UpdateItem(ctx, id, patch); err != nil {
		logger.LogError("updating item %d: %v", id, err)
		r.failure(&res, msgUpdateFailed, err)
		return res
	}
	res.CloseModal = true
	r.reload(ctx, &res, false)
	r.success(&res, msgUpdated)
	return res
}

// DeleteItem removes a dream; its photos go with it server-side.
func (r *Runner) DeleteItem(ctx context.Context, id int64) (res Result) {
	release, err := r.guard.Acquire(DeleteKey(id))
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	if err := r.client.DeleteItem(ctx, id); err != nil {
		logger.LogError("deleting item %d: %v", id, err)
		r.failure(&res, msgDeleteFailed, err)
		return res
	}
	r.reload(ctx, &res, true)
	r.success(&res, msgDeleted)
	return res
}

// ToggleComplete sets the completion flag to completed (the checkbox's new
// state). On failure the pre-click state comes back in RollbackChecked and the
// list is reloaded to resync with the server.
func (r *Runner) ToggleComplete(ctx context.Context, id int64, completed bool) (res Result) {
	release, err := r.guard.Acquire(ToggleKey(id))
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	if _, err := r.client.UpdateItem(ctx, id, model.ItemPatch{IsCompleted: &completed}); err != nil {
		logger.LogError("toggling item %d: %v", id, err)
		r.failure(&res, msgToggleFailed, err)
		before := !completed
		res.RollbackChecked = &before
		r.reload(ctx, &res, false)
		return res
	}
	r.reload(ctx, &res, true)
	if completed {
		r.success(&res, msgCompleted)
	} else {
		r.success(&res, msgPending)
	}
	return res
}

// UploadPhotos sends files one at a time, in order. Every file is tallied on
// its own; one failure does not stop the rest.
func (r *Runner) UploadPhotos(ctx context.Context, itemID int64, files []string, progress Progress) (res Result) {
	if len(files) == 0 {
		r.failure(&res, msgNoPhotos, ErrNoFiles)
		return res
	}
	release, err := r.guard.Acquire(UploadKey(itemID))
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	var lastErr error
	for i, path := range files {
		if progress != nil {
			progress(i+1, len(files))
		}
		if err := r.uploadOne(ctx, itemID, path); err != nil {
			logger.LogError("uploading %s to item %d: %v", path, itemID, err)
			lastErr = err
			res.Failed++
			continue
		}
		res.Uploaded++
	}

	res.CloseModal = true
	r.reload(ctx, &res, false)

	switch {
	case res.Failed == 0:
		r.success(&res, uploadedMessage(res.Uploaded))
	case res.Uploaded == 0:
		r.failure(&res, msgUploadFailed, lastErr)
	default:
		r.failure(&res, fmt.Sprintf("%d uploaded, %d failed", res.Uploaded, res.Failed), lastErr)
	}
	return res
}

func (r *Runner) uploadOne(ctx context.Context, itemID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	_, err = r.client.UploadPhoto(ctx, itemID, path, f)
	return err
}

func uploadedMessage(n int) string {
	if n == 1 {
		return "1 photo uploaded successfully! 📸"
	}
	return fmt.Sprintf("%d photos uploaded successfully! 📸", n)
}

// DeletePhoto removes one photo.
func (r *Runner) DeletePhoto(ctx context.Context, photoID int64) (res Result) {
	release, err := r.guard.Acquire(PhotoDeleteKey(photoID))
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	if err := r.client.DeletePhoto(ctx, photoID); err != nil {
		logger.LogError("deleting photo %d: %v", photoID, err)
		r.failure(&res, msgPhotoDelFail, err)
		return res
	}
	r.reload(ctx, &res, false)
	r.success(&res, msgPhotoDeleted)
	return res
}
