package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

// newRecordKey guards the registration form, which has no id yet.
const newRecordKey = "+new"

type Controller struct {
	store    EmployeeStore
	pictures PictureUploader
	messages *i18n.Messages
	logger   *slog.Logger
	now      func() time.Time

	refreshGroup singleflight.Group

	mu          sync.Mutex
	state       State
	employees   []*employee.Employee
	modal       *PromoteModal
	edit        *EditForm
	notice      *Notice
	inFlight    map[string]struct{}
	refreshedAt time.Time
	lastUsed    time.Time
}

func NewController(store EmployeeStore, pictures PictureUploader, messages *i18n.Messages, logger *slog.Logger) *Controller {
	if messages == nil {
		messages = i18n.MustFor(i18n.LocaleEnglish)
	}
	return &Controller{
		store:    store,
		pictures: pictures,
		messages: messages,
		logger:   logger,
		now:      time.Now,
		state:    StateIdle,
		inFlight: make(map[string]struct{}),
		lastUsed: time.Now(),
	}
}

func (c *Controller) touch() {
	c.lastUsed = c.now()
}

func (c *Controller) setNotice(level NoticeLevel, key i18n.Key, err error) {
	n := &Notice{Level: level, Message: c.messages.Get(key)}
	if err != nil {
		n.Kind = internal.KindOf(err)
		if appErr, ok := internal.IsAppError(err); ok {
			n.Detail = appErr.Message
		}
	}
	c.notice = n
}

func (c *Controller) notify(level NoticeLevel, key i18n.Key, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setNotice(level, key, err)
}

// Refresh re-reads the list. Concurrent calls share one store round trip,
// which runs detached from any single caller's cancellation. A caller whose
// context ends stops waiting without affecting the others.
// On failure the previous list stays in place.
func (c *Controller) Refresh(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)
	ch := c.refreshGroup.DoChan("refresh", func() (interface{}, error) {
		return nil, c.reload(shared)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) reload(ctx context.Context) error {
	c.mu.Lock()
	previous := c.state
	c.state = StateLoading
	c.touch()
	c.mu.Unlock()

	list, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = previous
		if previous == StateLoading {
			c.state = StateIdle
		}
		c.setNotice(NoticeError, i18n.NoticeRefreshFail, err)
		c.logger.Warn("dashboard refresh failed, keeping previous list", "error", err, "kept", len(c.employees))
		return err
	}

	SortEmployees(list)
	c.employees = list
	c.state = StateLoaded
	c.refreshedAt = c.now()
	return nil
}

// acquire marks id as having a mutation in flight.
func (c *Controller) acquire(id string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if _, busy := c.inFlight[id]; busy {
		c.setNotice(NoticeError, i18n.NoticeMutationInFlight, internal.ErrMutationInFlight)
		return nil, internal.ErrMutationInFlight
	}
	c.inFlight[id] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.inFlight, id)
		c.mu.Unlock()
	}, nil
}

// afterMutation re-reads the list and then shows the success notice. A
// failed re-read leaves the refresh failure notice in place.
func (c *Controller) afterMutation(ctx context.Context, success i18n.Key) {
	if err := c.Refresh(ctx); err != nil {
		return
	}
	c.notify(NoticeSuccess, success, nil)
}

func (c *Controller) find(id string) (*employee.Employee, bool) {
	for _, e := range c.employees {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// OpenPromote opens the promote modal prefilled from the listed record.
func (c *Controller) OpenPromote(id string) (*PromoteModal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	e, ok := c.find(id)
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	c.modal = &PromoteModal{
		EmployeeID:      e.ID,
		Title:           c.messages.Get(i18n.DashboardPromoteModalTitle),
		Position:        e.JobTitle,
		Department:      e.Department,
		Salary:          e.Salary,
		PositionLabel:   c.messages.Get(i18n.DashboardPositionLabel),
		DepartmentLabel: c.messages.Get(i18n.DashboardDepartmentLabel),
		SalaryLabel:     c.messages.Get(i18n.FieldSalary),
		SubmitLabel:     c.messages.Get(i18n.DashboardPromoteModalSubmit),
	}
	cp := *c.modal
	return &cp, nil
}

func (c *Controller) ClosePromote() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.modal = nil
}

// Promote requires position, department and salary. On failure the modal
// stays open with the submitted values.
func (c *Controller) Promote(ctx context.Context, id string, p employee.Promotion) error {
	c.mu.Lock()
	if c.modal != nil && c.modal.EmployeeID == id {
		c.modal.Position, c.modal.Department, c.modal.Salary = p.Position, p.Department, p.Salary
	}
	c.mu.Unlock()

	if err := p.Validate(); err != nil {
		c.notify(NoticeError, i18n.NoticePromoteMissingFields, err)
		return err
	}

	release, err := c.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.store.Update(ctx, id, p.Patch(c.now())); err != nil {
		c.logger.Warn("promote failed", "error", err, "employee_id", id)
		c.notify(NoticeError, i18n.NoticePromoteFail, err)
		return err
	}

	c.mu.Lock()
	if c.modal != nil && c.modal.EmployeeID == id {
		c.modal = nil
	}
	c.mu.Unlock()

	c.afterMutation(ctx, i18n.NoticePromoted)
	return nil
}

func (c *Controller) Terminate(ctx context.Context, id string) error {
	release, err := c.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if _, err := c.store.Update(ctx, id, employee.TerminationPatch(c.now())); err != nil {
		c.logger.Warn("terminate failed", "error", err, "employee_id", id)
		c.notify(NoticeError, i18n.NoticeTerminateFail, err)
		return err
	}

	c.afterMutation(ctx, i18n.NoticeTerminated)
	return nil
}

func (c *Controller) Remove(ctx context.Context, id string) error {
	release, err := c.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if err := c.store.Delete(ctx, id); err != nil {
		c.logger.Warn("delete failed", "error", err, "employee_id", id)
		c.notify(NoticeError, i18n.NoticeDeleteFail, err)
		return err
	}

	c.mu.Lock()
	if c.modal != nil && c.modal.EmployeeID == id {
		c.modal = nil
	}
	if c.edit != nil && c.edit.EmployeeID == id {
		c.edit = nil
	}
	c.mu.Unlock()

	c.afterMutation(ctx, i18n.NoticeDeleted)
	return nil
}

// BeginEdit loads the stored record into a fresh draft.
func (c *Controller) BeginEdit(ctx context.Context, id string) (*employee.Draft, error) {
	e, err := c.store.Get(ctx, id)
	if err != nil {
		c.notify(NoticeError, i18n.NoticeEmployeeLoadFail, err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.edit = &EditForm{EmployeeID: id, Draft: employee.DraftFromEmployee(e)}
	return cloneDraft(c.edit.Draft), nil
}

// BeginCreate opens an empty registration form.
func (c *Controller) BeginCreate() *employee.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.edit = &EditForm{Draft: &employee.Draft{}}
	return cloneDraft(c.edit.Draft)
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.edit = nil
}

// SetField changes one field of the open draft.
func (c *Controller) SetField(field, value string) (*employee.Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if c.edit == nil {
		return nil, ErrNoDraft
	}
	if err := c.edit.Draft.Set(field, value); err != nil {
		return nil, err
	}
	return cloneDraft(c.edit.Draft), nil
}

// ToggleTerminated flips the status switch of the edit form.
func (c *Controller) ToggleTerminated() (*employee.Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if c.edit == nil {
		return nil, ErrNoDraft
	}
	c.edit.Draft.IsTerminated = !c.edit.Draft.IsTerminated
	return cloneDraft(c.edit.Draft), nil
}

// SetPicture attaches a picture to the open draft. It is uploaded on submit.
// A nil attachment clears the pending picture.
func (c *Controller) SetPicture(a *employee.Attachment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if c.edit == nil {
		return ErrNoDraft
	}
	c.edit.Draft.ProfilePicture = a
	c.edit.PendingPicture = ""
	if a != nil {
		c.edit.PendingPicture = a.FileName
	}
	return nil
}

// SubmitEdit writes the whole draft over the stored record, or registers
// it when the form was opened with BeginCreate. The draft is discarded on
// success and kept on failure.
func (c *Controller) SubmitEdit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.edit == nil {
		c.mu.Unlock()
		return "", ErrNoDraft
	}
	form := c.edit
	draft := cloneDraft(form.Draft)
	c.mu.Unlock()

	if form.EmployeeID == "" {
		id, err := c.Create(ctx, draft)
		if err != nil {
			return "", err
		}
		c.discardForm(form)
		return id, nil
	}

	release, err := c.acquire(form.EmployeeID)
	if err != nil {
		return "", err
	}
	defer release()

	if err := draft.Validate(); err != nil {
		c.notify(NoticeError, i18n.NoticeEmployeeUpdateFail, err)
		return "", err
	}
	if err := c.uploadPicture(ctx, draft); err != nil {
		c.notify(NoticeError, i18n.NoticeEmployeeUpdateFail, err)
		return "", err
	}
	if _, err := c.store.Replace(ctx, form.EmployeeID, draft); err != nil {
		c.logger.Warn("edit failed", "error", err, "employee_id", form.EmployeeID)
		c.notify(NoticeError, i18n.NoticeEmployeeUpdateFail, err)
		return "", err
	}

	c.discardForm(form)
	c.afterMutation(ctx, i18n.NoticeEmployeeUpdated)
	return form.EmployeeID, nil
}

func (c *Controller) discardForm(form *EditForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == form {
		c.edit = nil
	}
}

func (c *Controller) uploadPicture(ctx context.Context, draft *employee.Draft) error {
	if draft.ProfilePicture == nil {
		return nil
	}
	if c.pictures == nil {
		return internal.NewUploadError("Picture uploads are not configured", errors.New("no picture store"))
	}
	url, err := c.pictures.UploadProfilePicture(ctx, draft.ProfilePicture.FileName, draft.ProfilePicture.ContentType, draft.ProfilePicture.Data)
	if err != nil {
		return err
	}
	draft.ProfilePictureURL = &url
	draft.ProfilePicture = nil
	return nil
}

// Create uploads the picture first, if any, then registers the draft with
// the picture URL.
func (c *Controller) Create(ctx context.Context, draft *employee.Draft) (string, error) {
	release, err := c.acquire(newRecordKey)
	if err != nil {
		return "", err
	}
	defer release()

	draft = cloneDraft(draft)
	if err := draft.Validate(); err != nil {
		c.notify(NoticeError, i18n.NoticeEmployeeRegisterFail, err)
		return "", err
	}
	if err := c.uploadPicture(ctx, draft); err != nil {
		c.logger.Warn("profile picture upload failed", "error", err)
		c.notify(NoticeError, i18n.NoticeEmployeeRegisterFail, err)
		return "", err
	}

	id, err := c.store.Create(ctx, draft)
	if err != nil {
		c.notify(NoticeError, i18n.NoticeEmployeeRegisterFail, err)
		return "", err
	}

	c.afterMutation(ctx, i18n.NoticeEmployeeRegistered)
	return id, nil
}

// Employee returns the listed record, as handed to the CV page.
func (c *Controller) Employee(id string) (*employee.Employee, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	e, ok := c.find(id)
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State: c.state,
		Title: c.messages.Get(i18n.DashboardTitle),
		Cards: make([]Card, 0, len(c.employees)),
	}
	for _, e := range c.employees {
		v.Cards = append(v.Cards, NewCard(e, c.messages))
	}
	if c.modal != nil {
		m := *c.modal
		v.Modal = &m
	}
	if c.edit != nil {
		v.Edit = &EditForm{
			EmployeeID:     c.edit.EmployeeID,
			Draft:          cloneDraft(c.edit.Draft),
			PendingPicture: c.edit.PendingPicture,
			Labels:         FormLabels(c.messages),
		}
	}
	if c.notice != nil {
		n := *c.notice
		v.Notice = &n
	}
	for id := range c.inFlight {
		v.InFlight = append(v.InFlight, id)
	}
	sort.Strings(v.InFlight)
	if !c.refreshedAt.IsZero() {
		t := c.refreshedAt
		v.RefreshedAt = &t
	}
	return v
}

// LastUsed reports when the controller last served a call.
func (c *Controller) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

func cloneDraft(d *employee.Draft) *employee.Draft {
	if d == nil {
		return nil
	}
	cp := *d
	cp.History = append([]employee.HistoryEntry(nil), d.History...)
	if d.ProfilePictureURL != nil {
		u := *d.ProfilePictureURL
		cp.ProfilePictureURL = &u
	}
	return &cp
}
