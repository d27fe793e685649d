package surface

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/editsession"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/notify"
)

const (
	DefaultCategory = "Outros"
	DefaultUnit     = "un"
)

type FormOption func(*Form)

// WithFormClock replaces time.Now for the default purchase date.
func WithFormClock(now func() time.Time) FormOption {
	return func(f *Form) { f.now = now }
}

// Form edits a draft item. While the edit session has a target the draft is that target and
// Save updates it; otherwise Save creates a new item.
type Form struct {
	store   Store
	session *editsession.Session
	notices *notify.Center
	now     func() time.Time

	mu      sync.Mutex
	draft   model.Item
	editing *model.ItemID
	stop    func()
}

func NewForm(store Store, session *editsession.Session, notices *notify.Center, opts ...FormOption) *Form {
	f := &Form{
		store:   store,
		session: session,
		notices: notices,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.draft = f.blank()
	if target, ok := session.Target(); ok {
		f.load(&target)
	}
	f.stop = session.Watch(f.load)
	return f
}

func (f *Form) blank() model.Item {
	return model.Item{
		Date:     model.Ptr(f.now().Format(time.DateOnly)),
		Category: model.Ptr(DefaultCategory),
		Quantity: model.Ptr(int64(1)),
		Unit:     model.Ptr(DefaultUnit),
	}
}

// load follows the edit session: a target becomes the draft, going idle resets it.
func (f *Form) load(target *model.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if target == nil {
		f.draft = f.blank()
		f.editing = nil
		return
	}
	f.draft = target.Clone()
	id := target.ID
	f.editing = &id
}

func (f *Form) Draft() model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// Change applies fn to the draft.
func (f *Form) Change(fn func(*model.Item)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.draft)
}

// Editing returns the id of the item being edited, if any.
func (f *Form) Editing() (model.ItemID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editing == nil {
		return model.ItemID{}, false
	}
	return *f.editing, true
}

// Save validates the draft, writes it through the coordinator and resets the form.
func (f *Form) Save(ctx context.Context) (coordinator.Result, error) {
	f.mu.Lock()
	draft := f.draft.Clone()
	var editing *model.ItemID
	if f.editing != nil {
		id := *f.editing
		editing = &id
	}
	f.mu.Unlock()

	if strings.TrimSpace(draft.Name) == "" || draft.Quantity == nil || *draft.Quantity <= 0 {
		f.notices.ShowT("item.invalid", nil, notify.KindError)
		return coordinator.Result{}, ErrInvalidDraft
	}

	var res coordinator.Result
	if editing != nil {
		res = f.store.Update(ctx, *editing, draft, FormIdentity)
		if res.Duplicated {
			f.notices.ShowT("item.updated_offline", nil, notify.KindWarning)
		} else {
			f.notices.ShowT("item.updated", nil, notify.KindSuccess)
		}
	} else {
		res = f.store.Create(ctx, draft, FormIdentity)
		if res.Source == coordinator.SourceLocal {
			f.notices.ShowT("item.saved_offline", nil, notify.KindWarning)
		} else {
			f.notices.ShowT("item.saved", nil, notify.KindSuccess)
		}
	}

	f.session.Saved()
	f.Reset()
	return res, nil
}

// Cancel ends the edit session and resets the draft.
func (f *Form) Cancel() {
	_, wasEditing := f.Editing()
	f.session.Cancel()
	f.Reset()
	if wasEditing {
		f.notices.ShowT("edit.cancelled", nil, notify.KindInfo)
	}
}

func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = f.blank()
	f.editing = nil
}

func (f *Form) Close() {
	if f.stop != nil {
		f.stop()
	}
}
