package surface

import (
	"context"
	"testing"

	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/editsession"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_DefaultDraft(t *testing.T) {
	f := newFixture(t)
	form := NewForm(f.coord, f.session, f.notices, WithFormClock(fixedDay))
	defer form.Close()

	d := form.Draft()
	assert.Equal(t, "2024-03-09", *d.Date)
	assert.Equal(t, "Outros", *d.Category)
	assert.EqualValues(t, 1, *d.Quantity)
	assert.Equal(t, "un", *d.Unit)
	assert.Empty(t, d.Name)
	assert.Nil(t, d.Price)
	_, editing := form.Editing()
	assert.False(t, editing)
}

func TestForm_SaveRejectsInvalidDraft(t *testing.T) {
	cases := map[string]func(*model.Item){
		"empty name":    func(it *model.Item) { it.Name = "  " },
		"zero quantity": func(it *model.Item) { it.Name = "Arroz"; it.Quantity = model.Ptr(int64(0)) },
		"no quantity":   func(it *model.Item) { it.Name = "Arroz"; it.Quantity = nil },
	}
	for name, change := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			form := NewForm(f.coord, f.session, f.notices)
			defer form.Close()
			form.Change(change)

			_, err := form.Save(context.Background())
			assert.ErrorIs(t, err, ErrInvalidDraft)
			assert.Empty(t, f.remote.items)
			assert.Empty(t, f.local.Load(context.Background()))
			_, published := f.bus.Last()
			assert.False(t, published)
			assert.Contains(t, f.messages(), "Product name and quantity are required")
		})
	}
}

func TestForm_CreateRemote(t *testing.T) {
	f := newFixture(t)
	list := NewList(context.Background(), f.coord, f.bus, f.session, f.notices, 0, logger.NewNop())
	defer list.Close()
	form := NewForm(f.coord, f.session, f.notices, WithFormClock(fixedDay))
	defer form.Close()

	form.Change(func(it *model.Item) { it.Name = "Arroz"; it.Brand = model.Ptr("Tio João") })
	res, err := form.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, coordinator.SourceRemote, res.Source)
	assert.EqualValues(t, 1, res.Item.ID.Remote())
	items, _ := list.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Arroz", items[0].Name)
	assert.Empty(t, form.Draft().Name, "draft resets after save")
	assert.Contains(t, f.messages(), "Item saved")
}

func TestForm_CreateOffline(t *testing.T) {
	f := newFixture(t)
	f.remote.setOffline(true)
	form := NewForm(f.coord, f.session, f.notices)
	defer form.Close()

	form.Change(func(it *model.Item) { it.Name = "Feijão" })
	res, err := form.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, coordinator.SourceLocal, res.Source)
	assert.True(t, res.Item.ID.IsLocal())
	stored := f.local.Load(context.Background())
	require.Len(t, stored, 1)
	assert.Equal(t, "Feijão", stored[0].Name)
	assert.Contains(t, f.messages(), "Server unavailable: item saved locally")
}

func TestForm_FollowsEditSession(t *testing.T) {
	f := newFixture(t)
	created := f.coord.Create(context.Background(), model.Item{Name: "Sal", Quantity: model.Ptr(int64(2))}, "seed")
	form := NewForm(f.coord, f.session, f.notices)
	defer form.Close()

	f.session.Edit(created.Item)

	id, editing := form.Editing()
	require.True(t, editing)
	assert.Equal(t, created.Item.ID, id)
	assert.Equal(t, "Sal", form.Draft().Name)

	form.Cancel()
	_, editing = form.Editing()
	assert.False(t, editing)
	assert.Equal(t, editsession.Idle, f.session.State())
	assert.Empty(t, form.Draft().Name)
	assert.Contains(t, f.messages(), "Edit cancelled")
}

func TestForm_UpdateRemote(t *testing.T) {
	f := newFixture(t)
	created := f.coord.Create(context.Background(), model.Item{Name: "Sal", Quantity: model.Ptr(int64(2))}, "seed")
	form := NewForm(f.coord, f.session, f.notices)
	defer form.Close()

	f.session.Edit(created.Item)
	form.Change(func(it *model.Item) { it.Quantity = model.Ptr(int64(5)) })
	res, err := form.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, coordinator.SourceRemote, res.Source)
	assert.False(t, res.Duplicated)
	require.Len(t, f.remote.items, 1)
	assert.EqualValues(t, 5, *f.remote.items[0].Quantity)
	assert.Equal(t, editsession.Idle, f.session.State())
	_, editing := form.Editing()
	assert.False(t, editing)
	assert.Contains(t, f.messages(), "Item updated")
}

func TestForm_UpdateRemoteWhileOfflineDuplicates(t *testing.T) {
	f := newFixture(t)
	created := f.coord.Create(context.Background(), model.Item{Name: "Sal", Quantity: model.Ptr(int64(2))}, "seed")
	form := NewForm(f.coord, f.session, f.notices)
	defer form.Close()

	f.session.Edit(created.Item)
	f.remote.setOffline(true)
	form.Change(func(it *model.Item) { it.Quantity = model.Ptr(int64(9)) })
	res, err := form.Save(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Duplicated)
	assert.True(t, res.Item.ID.IsLocal())
	assert.EqualValues(t, 2, *f.remote.items[0].Quantity, "remote original untouched")
	stored := f.local.Load(context.Background())
	require.Len(t, stored, 1)
	assert.EqualValues(t, 9, *stored[0].Quantity)
	assert.Contains(t, f.messages(), "Server unavailable: changes saved locally as a new item")
}

func TestForm_UpdateLocalItemInPlace(t *testing.T) {
	f := newFixture(t)
	f.remote.setOffline(true)
	created := f.coord.Create(context.Background(), model.Item{Name: "Café", Quantity: model.Ptr(int64(1))}, "seed")
	form := NewForm(f.coord, f.session, f.notices)
	defer form.Close()

	f.session.Edit(created.Item)
	form.Change(func(it *model.Item) { it.Quantity = model.Ptr(int64(3)) })
	res, err := form.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, created.Item.ID, res.Item.ID)
	stored := f.local.Load(context.Background())
	require.Len(t, stored, 1)
	assert.EqualValues(t, 3, *stored[0].Quantity)
}

func TestForm_ForeignSignalDropsEdit(t *testing.T) {
	f := newFixture(t)
	created := f.coord.Create(context.Background(), model.Item{Name: "Sal"}, "seed")
	form := NewForm(f.coord, f.session, f.notices)
	defer form.Close()

	f.session.Edit(created.Item)
	f.bus.Publish("another-window")

	_, editing := form.Editing()
	assert.False(t, editing)
	assert.Empty(t, form.Draft().Name)
}

func TestForm_PicksUpExistingTarget(t *testing.T) {
	f := newFixture(t)
	f.session.Edit(model.Item{ID: model.RemoteID(7), Name: "Açúcar"})

	form := NewForm(f.coord, f.session, f.notices)
	defer form.Close()

	id, editing := form.Editing()
	require.True(t, editing)
	assert.EqualValues(t, 7, id.Remote())
	assert.Equal(t, "Açúcar", form.Draft().Name)
}
