package jsonsurf_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonsurf "github.com/sgrust01/json-surf"
)

type user struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Age  uint8  `json:"age"`
}

type blob struct {
	Title string `json:"title"`
	Data  []byte `json:"data"`
}

type giant struct {
	Text string  `json:"text"`
	U8   uint8   `json:"u8"`
	U16  uint16  `json:"u16"`
	U32  uint32  `json:"u32"`
	U64  uint64  `json:"u64"`
	I8   int8    `json:"i8"`
	I16  int16   `json:"i16"`
	I32  int32   `json:"i32"`
	I64  int64   `json:"i64"`
	F32  float32 `json:"f32"`
	F64  float64 `json:"f64"`
}

func openSurfer(t *testing.T, home string, register func(b *jsonsurf.Builder)) *jsonsurf.Surfer {
	t.Helper()
	b := jsonsurf.NewBuilder()
	require.NoError(t, b.SetHome(home))
	register(b)
	s, err := b.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openUsers(t *testing.T) *jsonsurf.Surfer {
	t.Helper()
	return openSurfer(t, t.TempDir(), func(b *jsonsurf.Builder) {
		require.NoError(t, jsonsurf.RegisterType[user](b, "users", nil))
	})
}

func decodeUsers(t *testing.T, bodies []json.RawMessage) []user {
	t.Helper()
	users, err := jsonsurf.Decode[user](bodies)
	require.NoError(t, err)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func TestSurfer_SelectAndOr(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)

	_, err := s.InsertMany(ctx, "users", []any{
		user{ID: 1, Name: "alan", Age: 41},
		user{ID: 2, Name: "ada", Age: 36},
		user{ID: 3, Name: "alan", Age: 36},
	})
	require.NoError(t, err)

	got, err := s.Select(ctx, "users", jsonsurf.Query{
		jsonsurf.AllOf(jsonsurf.Cond("name", "alan"), jsonsurf.Cond("age", "36")),
	})
	require.NoError(t, err)
	assert.Equal(t, []user{{ID: 3, Name: "alan", Age: 36}}, decodeUsers(t, got))

	got, err = s.Select(ctx, "users", jsonsurf.Query{
		jsonsurf.AllOf(jsonsurf.Cond("id", "1")),
		jsonsurf.AllOf(jsonsurf.Cond("name", "ada")),
		jsonsurf.AllOf(jsonsurf.Cond("age", "41")),
	})
	require.NoError(t, err)
	users := decodeUsers(t, got)
	require.Len(t, users, 2)
	assert.Equal(t, uint64(1), users[0].ID)
	assert.Equal(t, uint64(2), users[1].ID)
}

func TestSurfer_SelectEmptyIntersection(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)
	require.NoError(t, s.Insert(ctx, "users", user{ID: 1, Name: "alan", Age: 41}))

	got, err := s.Select(ctx, "users", jsonsurf.Query{
		jsonsurf.AllOf(jsonsurf.Cond("name", "alan"), jsonsurf.Cond("age", "42")),
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSurfer_DocumentBodyKeepsFieldOrder(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)
	require.NoError(t, s.Insert(ctx, "users", user{ID: 7, Name: "grace", Age: 85}))

	got, err := s.ReadByField(ctx, "users", "id", "7")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"id":7,"name":"grace","age":85}`, string(got[0]))
	assert.Equal(t, `{"id":7,"name":"grace","age":85}`, string(got[0]))
}

func TestSurfer_Delete(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)
	_, err := s.InsertMany(ctx, "users", []any{
		user{ID: 1, Name: "alan", Age: 41},
		user{ID: 2, Name: "ada", Age: 36},
	})
	require.NoError(t, err)

	n, err := s.DeleteByField(ctx, "users", "name", "alan")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.ReadByField(ctx, "users", "name", "alan")
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err = s.DeleteByText(ctx, "users", "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.Count(ctx, "users")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSurfer_DeleteByFieldRemovesAllMatches(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)
	_, err := s.InsertMany(ctx, "users", []any{
		user{ID: 1, Name: "x", Age: 10},
		user{ID: 2, Name: "x", Age: 10},
		user{ID: 3, Name: "y", Age: 20},
		user{ID: 4, Name: "z", Age: 30},
	})
	require.NoError(t, err)

	n, err := s.DeleteByField(ctx, "users", "age", "10")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	idx := jsonsurf.NewIndex[user](s, "users")
	gone, err := idx.ReadByField(ctx, "name", "x")
	require.NoError(t, err)
	assert.Empty(t, gone)

	rest, err := idx.ReadAllByField(ctx, "age", "20")
	require.NoError(t, err)
	assert.Equal(t, []user{{ID: 3, Name: "y", Age: 20}}, rest)

	count, err := s.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestSurfer_DeleteUnknownCollection(t *testing.T) {
	s := openUsers(t)
	_, err := s.DeleteByField(context.Background(), "ghosts", "name", "alan")
	assert.ErrorIs(t, err, jsonsurf.ErrNotFound)
}

func TestSurfer_BytesFieldRejected(t *testing.T) {
	ctx := context.Background()
	s := openSurfer(t, t.TempDir(), func(b *jsonsurf.Builder) {
		require.NoError(t, jsonsurf.RegisterType[blob](b, "blobs", nil))
	})
	require.NoError(t, s.Insert(ctx, "blobs", blob{Title: "hello", Data: []byte("hi")}))

	_, err := s.Select(ctx, "blobs", jsonsurf.Where("data", "aGk="))
	require.Error(t, err)
	assert.ErrorIs(t, err, jsonsurf.ErrQuery)
	assert.Equal(t, jsonsurf.KindQuery, jsonsurf.KindOf(err))

	got, err := s.ReadByField(ctx, "blobs", "title", "hello")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, `{"title":"hello","data":"aGk="}`, string(got[0]))
}

func TestSurfer_LimitDefaults(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)

	items := make([]any, 52)
	for i := range items {
		items[i] = user{ID: uint64(i + 1), Name: "same", Age: 30}
	}
	n, err := s.InsertMany(ctx, "users", items)
	require.NoError(t, err)
	require.Equal(t, 52, n)

	got, err := s.ReadByField(ctx, "users", "age", "30")
	require.NoError(t, err)
	assert.Len(t, got, 10)

	got, err = s.Apply(ctx, "users", jsonsurf.Where("age", "30"), 100, 0)
	require.NoError(t, err)
	assert.Len(t, got, 52)

	got, err = s.ReadAllByField(ctx, "users", "name", "same")
	require.NoError(t, err)
	assert.Len(t, got, 52)
}

func TestSurfer_InsertUnknownCollectionIsNoop(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)

	require.NoError(t, s.Insert(ctx, "ghosts", user{ID: 1, Name: "casper"}))

	_, err := s.ReadByField(ctx, "ghosts", "name", "casper")
	assert.ErrorIs(t, err, jsonsurf.ErrNotFound)
	_, ok := s.WhichPath("ghosts")
	assert.False(t, ok)
}

func TestSurfer_InsertRejectsMismatchedRecord(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)

	_, err := s.InsertJSON(ctx, "users", []byte(`[{"id":1,"name":"a","age":1},{"id":"x","name":"b","age":2}]`))
	require.Error(t, err)

	count, err := s.Count(ctx, "users")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSurfer_GiantRecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSurfer(t, t.TempDir(), func(b *jsonsurf.Builder) {
		require.NoError(t, jsonsurf.RegisterType[giant](b, "giants", nil))
	})
	g := giant{
		Text: "colossus", U8: 8, U16: 16, U32: 32, U64: 64,
		I8: -8, I16: -16, I32: -32, I64: -64, F32: 1.5, F64: -2.25,
	}
	require.NoError(t, s.Insert(ctx, "giants", g))
	require.NoError(t, s.Insert(ctx, "giants", giant{Text: "dwarf", U8: 1}))

	q := jsonsurf.Query{jsonsurf.AllOf(
		jsonsurf.Cond("text", "colossus"),
		jsonsurf.Cond("u8", "8"),
		jsonsurf.Cond("u16", "16"),
		jsonsurf.Cond("u32", "32"),
		jsonsurf.Cond("u64", "64"),
		jsonsurf.Cond("i8", "-8"),
		jsonsurf.Cond("i16", "-16"),
		jsonsurf.Cond("i32", "-32"),
		jsonsurf.Cond("i64", "-64"),
		jsonsurf.Cond("f32", "1.5"),
		jsonsurf.Cond("f64", "-2.25"),
	)}

	idx := jsonsurf.NewIndex[giant](s, "giants")
	got, err := idx.Select(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []giant{g}, got)
}

func TestSurfer_Float32RoundTrip(t *testing.T) {
	type reading struct {
		Name string  `json:"name"`
		F32  float32 `json:"f32"`
	}
	ctx := context.Background()
	s := openSurfer(t, t.TempDir(), func(b *jsonsurf.Builder) {
		require.NoError(t, jsonsurf.RegisterType[reading](b, "readings", nil))
	})
	r := reading{Name: "x", F32: 0.1}
	require.NoError(t, s.Insert(ctx, "readings", r))

	bodies, err := s.ReadByField(ctx, "readings", "name", "x")
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	want, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(bodies[0]))

	idx := jsonsurf.NewIndex[reading](s, "readings")
	got, err := idx.Select(ctx, jsonsurf.Query{jsonsurf.AllOf(
		jsonsurf.Cond("name", "x"),
		jsonsurf.Cond("f32", "0.1"),
	)})
	require.NoError(t, err)
	assert.Equal(t, []reading{r}, got)
}

func TestSurfer_ReopenUsesStoredSchema(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()

	b := jsonsurf.NewBuilder()
	require.NoError(t, b.SetHome(home))
	require.NoError(t, jsonsurf.RegisterType[user](b, "users", nil))
	s, err := b.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, "users", user{ID: 1, Name: "alan", Age: 41}))
	require.NoError(t, s.Close())

	// A different sample under the same name keeps the stored schema.
	b = jsonsurf.NewBuilder()
	require.NoError(t, b.SetHome(home))
	require.NoError(t, jsonsurf.RegisterType[blob](b, "users", nil))
	s, err = b.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	sch, err := s.Schema("users")
	require.NoError(t, err)
	_, ok := sch.FieldByName("age")
	assert.True(t, ok)

	path, ok := s.WhichPath("users")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, "users"), path)

	got, err := s.ReadByField(ctx, "users", "age", "41")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSurfer_ClosedFails(t *testing.T) {
	ctx := context.Background()
	b := jsonsurf.NewBuilder()
	require.NoError(t, b.SetHome(t.TempDir()))
	require.NoError(t, jsonsurf.RegisterType[user](b, "users", nil))
	s, err := b.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.ReadByField(ctx, "users", "id", "1")
	assert.ErrorIs(t, err, jsonsurf.ErrStorage)
}

func TestSurfer_Search(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)
	_, err := s.InsertMany(ctx, "users", []any{
		user{ID: 1, Name: "turing", Age: 41},
		user{ID: 2, Name: "hopper", Age: 85},
	})
	require.NoError(t, err)

	got, err := s.ReadStrings(ctx, "users", "hopper", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"id":2,"name":"hopper","age":85}`}, got)

	idx := jsonsurf.NewIndex[user](s, "users")
	fuzzy, err := idx.SearchFuzzy(ctx, "turin", 1, 5)
	require.NoError(t, err)
	require.Len(t, fuzzy, 1)
	assert.Equal(t, uint64(1), fuzzy[0].ID)

	_, err = idx.SearchFuzzy(ctx, "turin", -1, 5)
	assert.ErrorIs(t, err, jsonsurf.ErrQuery)
}

func TestIndex_DecodeMismatch(t *testing.T) {
	ctx := context.Background()
	s := openUsers(t)
	require.NoError(t, s.Insert(ctx, "users", user{ID: 1, Name: "alan", Age: 41}))

	type wrong struct {
		Name int `json:"name"`
	}
	_, err := jsonsurf.NewIndex[wrong](s, "users").ReadByField(ctx, "id", "1")
	assert.ErrorIs(t, err, jsonsurf.ErrSerialization)
}

func TestBuilder_String(t *testing.T) {
	b := jsonsurf.NewBuilder()
	require.NoError(t, b.SetHome("data"))
	require.NoError(t, jsonsurf.RegisterType[user](b, "users", nil))

	out := b.String()
	assert.Contains(t, out, "Home: data")
	assert.Contains(t, out, "Index: users")
}

func TestInfer_Deterministic(t *testing.T) {
	first, err := jsonsurf.Infer(map[string]any{"b": 1, "a": "x", "c": 2.5}, nil)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := jsonsurf.Infer(map[string]any{"c": 2.5, "a": "x", "b": 1}, nil)
		require.NoError(t, err)
		assert.Equal(t, first.String(), again.String(), "attempt "+strconv.Itoa(i))
	}
}

func TestBuilder_RegisterRejectsNested(t *testing.T) {
	type nested struct {
		Tags []string `json:"tags"`
	}
	b := jsonsurf.NewBuilder()
	err := jsonsurf.RegisterType[nested](b, "bad", nil)
	assert.ErrorIs(t, err, jsonsurf.ErrUnsupportedType)
}
