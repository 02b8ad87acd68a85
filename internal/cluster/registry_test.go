package cluster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCluster struct {
	id   Identity
	data Data
}

func (c *fakeCluster) Identity() Identity          { return c.id }
func (c *fakeCluster) Login(context.Context) error { return nil }
func (c *fakeCluster) Data() Data                  { return c.data.Clone() }

func fakeFactory(tag string, calls *int) Factory {
	return FactoryFunc(func(server string, data Data) (Cluster, error) {
		*calls++
		return &fakeCluster{id: Identity{Provider: tag, Server: server}, data: data}, nil
	})
}

type nameFactory struct{ Factory }

func (nameFactory) CreateFromName(name string, data Data) (Cluster, error) {
	return &fakeCluster{id: Identity{Provider: "named", Server: "https://" + name, Name: name}, data: data}, nil
}

func TestRegistry_RegisterThenCreate(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	calls := 0
	require.NoError(t, r.Register("farm", fakeFactory("farm", &calls)))

	c, err := r.Create("farm", "https://api.example:6443", Data{KeyUsername: "admin"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Identity{Provider: "farm", Server: "https://api.example:6443"}, c.Identity())
	assert.Equal(t, "admin", c.Data()[KeyUsername])
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	calls := 0

	require.NoError(t, r.Register("farm", fakeFactory("farm", &calls)))
	err := r.Register("farm", fakeFactory("farm", &calls))

	var dup *DuplicateProviderError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "farm", dup.Provider)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	calls := 0
	require.NoError(t, r.Register("farm", fakeFactory("farm", &calls)))

	c, err := r.Create("cloud", "https://x", nil)

	assert.Nil(t, c)
	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "cloud", unknown.Provider)
	assert.Equal(t, []string{"farm"}, unknown.Known)
	assert.Equal(t, 0, calls)
}

func TestRegistry_RejectsInvalidRegistration(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	calls := 0

	assert.Error(t, r.Register("", fakeFactory("x", &calls)))
	assert.Error(t, r.Register("x", nil))
	assert.Empty(t, r.Providers())
}

func TestRegistry_CreateCopiesData(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	calls := 0
	require.NoError(t, r.Register("farm", fakeFactory("farm", &calls)))

	data := Data{KeyToken: "abc"}
	c, err := r.Create("farm", "https://x", data)
	require.NoError(t, err)

	data[KeyToken] = "changed"
	assert.Equal(t, "abc", c.Data()[KeyToken])
}

func TestRegistry_FactoryErrorIsWrapped(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	boom := errors.New("bad data")
	require.NoError(t, r.Register("farm", FactoryFunc(func(string, Data) (Cluster, error) { return nil, boom })))

	_, err := r.Create("farm", "https://x", nil)
	require.ErrorIs(t, err, boom)
}

func TestRegistry_CreateFromName(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	calls := 0
	require.NoError(t, r.Register("named", nameFactory{fakeFactory("named", &calls)}))
	require.NoError(t, r.Register("plain", fakeFactory("plain", &calls)))

	c, err := r.CreateFromName("named", "ocp1", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://ocp1", c.Identity().Server)

	_, err = r.CreateFromName("plain", "ocp1", nil)
	assert.ErrorContains(t, err, "cannot derive a server URL")

	_, err = r.CreateFromName("missing", "ocp1", nil)
	var unknown *UnknownProviderError
	assert.ErrorAs(t, err, &unknown)
}

func TestRegistry_ProvidersSorted(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	calls := 0
	for _, tag := range []string{"b", "c", "a"} {
		require.NoError(t, r.Register(tag, fakeFactory(tag, &calls)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.Providers())
}

func TestData_Get(t *testing.T) {
	t.Parallel()
	d := Data{KeyUsername: "admin", KeyPassword: ""}

	v, ok := d.Get(KeyUsername)
	assert.True(t, ok)
	assert.Equal(t, "admin", v)

	_, ok = d.Get(KeyPassword)
	assert.False(t, ok)
	_, ok = d.Get(KeyToken)
	assert.False(t, ok)
}
