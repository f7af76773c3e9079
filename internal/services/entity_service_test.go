package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/store"
)

func TestEntityService_Create(t *testing.T) {
	env, pub := newTestEnv(t)
	svc := NewEntityService(env)
	ctx := context.Background()

	v, err := svc.Create(ctx, core.KindSpace, []byte(`{
		"id": "client-chosen",
		"propertyId": "p1",
		"name": "Kitchen",
		"tags": ["Renovation", " renovation ", "Plumbing", ""],
		"notes": [{"text": "tiles cracked"}]
	}`))
	require.NoError(t, err)

	sp := v.(*core.Space)
	assert.Equal(t, "id-1", sp.ID, "client ids are ignored")
	assert.Equal(t, []string{"Renovation", "Plumbing"}, sp.Tags)
	assert.Equal(t, testNow, sp.CreatedAtUTC)
	assert.Equal(t, testNow, sp.UpdatedAtUTC)
	require.Len(t, sp.Notes, 1)
	assert.NotEmpty(t, sp.Notes[0].ID)
	assert.True(t, sp.Notes[0].CreatedAtUTC.Valid())

	stored, err := store.GetAs[core.Space](env.Store, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", stored.Name)
	assert.Equal(t, []string{amqp.OpCreated}, pub.ops())
	assert.Equal(t, "p1", pub.msgs[0].PropertyID)
}

func TestEntityService_CreateValidation(t *testing.T) {
	env, pub := newTestEnv(t)
	svc := NewEntityService(env)

	_, err := svc.Create(context.Background(), core.KindSpace, []byte(`{"name": "No property"}`))
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Create(context.Background(), core.Kind("garages"), []byte(`{}`))
	assert.ErrorIs(t, err, store.ErrUnknownKind)

	_, err = svc.Create(context.Background(), core.KindSpace, []byte(`{"name":`))
	assert.ErrorIs(t, err, store.ErrMalformed)

	assert.Empty(t, pub.ops())
	assert.Equal(t, uint64(0), env.Store.Revision())
}

func TestEntityService_Update(t *testing.T) {
	env, pub := newTestEnv(t)
	svc := NewEntityService(env)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.KindContact, []byte(`{"name":"Mario","role":"plumber","phone":"123"}`))
	require.NoError(t, err)
	id := created.EntityID()

	later := testNow.Add(time.Hour)
	env.Now = func() time.Time { return later }

	v, err := svc.Update(ctx, core.KindContact, id, []byte(`{"id":"other","role":"electrician","phone":null,"createdAtUtc":"2000-01-01T00:00:00Z"}`))
	require.NoError(t, err)

	c := v.(*core.Contact)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "Mario", c.Name)
	assert.Equal(t, "electrician", c.Role)
	assert.Empty(t, c.Phone)
	assert.Equal(t, testNow, c.CreatedAtUTC)
	assert.Equal(t, later, c.UpdatedAtUTC)
	assert.Equal(t, []string{amqp.OpCreated, amqp.OpUpdated}, pub.ops())

	_, err = svc.Update(ctx, core.KindContact, "missing", []byte(`{}`))
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Update(ctx, core.KindContact, id, []byte(`{"email":"not-an-email"}`))
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestEntityService_DeleteAndList(t *testing.T) {
	env, pub := newTestEnv(t)
	svc := NewEntityService(env)
	ctx := context.Background()

	for _, body := range []string{
		`{"propertyId":"p1","name":"Kitchen"}`,
		`{"propertyId":"p1","name":"Garage"}`,
		`{"propertyId":"p2","name":"Attic"}`,
	} {
		_, err := svc.Create(ctx, core.KindSpace, []byte(body))
		require.NoError(t, err)
	}

	scoped, err := svc.List(core.KindSpace, "p1")
	require.NoError(t, err)
	assert.Len(t, scoped, 2)

	all, err := svc.List(core.KindSpace, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, svc.Delete(ctx, core.KindSpace, "id-1"))
	assert.ErrorIs(t, svc.Delete(ctx, core.KindSpace, "id-1"), store.ErrNotFound)
	assert.Equal(t, 2, svc.Counts()[core.KindSpace])

	ops := pub.ops()
	assert.Equal(t, amqp.OpDeleted, ops[len(ops)-1])
}

func TestEntityService_PublishFailureDoesNotFailWrite(t *testing.T) {
	env, pub := newTestEnv(t)
	pub.err = assert.AnError
	svc := NewEntityService(env)

	_, err := svc.Create(context.Background(), core.KindTag, []byte(`{"name":"Garden"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Counts()[core.KindTag])
}

func TestEntityService_Households(t *testing.T) {
	env, _ := newTestEnv(t)
	svc := NewEntityService(env)
	put(t, env, core.Household{Record: core.Record{ID: "h1"}, Name: "Rossi"})
	put(t, env, core.Household{Record: core.Record{ID: "h2"}, Name: "Bianchi"})

	all, err := svc.Households(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := svc.Households([]string{"h2"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Bianchi", one[0].Name)

	_, err = svc.Households([]string{"nope"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
