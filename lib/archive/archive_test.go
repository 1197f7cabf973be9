package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"tubelist/lib/sqliteutil"
	"tubelist/lib/telemetry"
)

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:archive")
	defer cleanup()

	sqlite, err := sqliteutil.OpenDB(Schema, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		_, err := store.Pull(ctx, "/c/unknown", "videos")
		require.ErrorIs(t, err, NoSnapshot)
	}
	{
		err := store.Push(ctx, Snapshot{
			Channel: "/c/alpha",
			Name:    "Alpha Channel",
			Kind:    "videos",
			TakenAt: time.Unix(1700000000, 0),
			Status:  "exhausted",
			Refs:    []string{"/watch?v=a", "/watch?v=b"},
		})
		if err != nil {
			t.Fatal(err)
		}

		err = store.Push(ctx, Snapshot{
			Channel: "/c/alpha",
			Name:    "Alpha Channel",
			Kind:    "videos",
			TakenAt: time.Unix(1700086400, 0),
			Status:  "exhausted",
			Refs:    []string{"/watch?v=c", "/watch?v=a", "/watch?v=b"},
		})
		if err != nil {
			t.Fatal(err)
		}

		err = store.Push(ctx, Snapshot{
			Channel: "/c/alpha",
			Name:    "Alpha Channel",
			Kind:    "shorts",
			TakenAt: time.Unix(1700086400, 0),
			Status:  "exhausted",
			Refs:    []string{"/shorts/s1"},
		})
		if err != nil {
			t.Fatal(err)
		}

		err = store.Push(ctx, Snapshot{
			Channel: "/c/beta",
			Name:    "Beta Gaming",
			Kind:    "videos",
			TakenAt: time.Unix(1700000000, 0),
			Status:  "boundary",
			Refs:    []string{"/watch?v=x"},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	{
		snap, err := store.Pull(ctx, "/c/alpha", "videos")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, "Alpha Channel", snap.Name)
		require.Equal(t, "exhausted", snap.Status)
		require.Equal(t, time.Unix(1700086400, 0), snap.TakenAt)
		// the latest walk wins and ref order survives the round trip
		require.Equal(t, []string{"/watch?v=c", "/watch?v=a", "/watch?v=b"}, snap.Refs)

		snap, err = store.Pull(ctx, "/c/alpha", "shorts")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, []string{"/shorts/s1"}, snap.Refs)
	}
	{
		channels, err := store.Channels(ctx)
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, channels, 2)
		require.Equal(t, "/c/alpha", channels[0].Uri)
		require.Equal(t, 3, channels[0].Snapshots)
		require.Equal(t, time.Unix(1700086400, 0), channels[0].LastTaken)
		require.Equal(t, "/c/beta", channels[1].Uri)
		require.Equal(t, 1, channels[1].Snapshots)
	}
	{
		history, err := store.History(ctx, "/c/alpha")
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, history, 3)
		require.Equal(t, time.Unix(1700086400, 0), history[0].TakenAt)
		require.Equal(t, 2, history[2].Count)
	}
}

func TestStoreSearch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:archive")
	defer cleanup()

	sqlite, err := sqliteutil.OpenDB(Schema, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	names := map[string]string{
		"/c/pk":    "Programming Knowledge",
		"/c/ltt":   "Linus Tech Tips",
		"/c/veri":  "Veritasium",
		"/c/blank": "",
	}
	for uri, name := range names {
		err := store.Push(ctx, Snapshot{
			Channel: uri,
			Name:    name,
			Kind:    "videos",
			TakenAt: time.Unix(1700000000, 0),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	results, err := store.Search(ctx, "programing knowledge")
	if err != nil {
		t.Fatal(err)
	}
	require.NotEmpty(t, results)
	require.Equal(t, "/c/pk", results[0].Uri)

	// casing and padding must not matter
	results, err = store.Search(ctx, "  LINUS tech TIPS ")
	if err != nil {
		t.Fatal(err)
	}
	require.NotEmpty(t, results)
	require.Equal(t, "/c/ltt", results[0].Uri)
}
