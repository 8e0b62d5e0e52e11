package balancer_test

import (
	"context"
	"testing"

	"github.com/kavalan/docshard/balancer"
	"github.com/kavalan/docshard/docstore"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func edit(doc, content string) docstore.Request {
	return docstore.Request{Type: docstore.Edit, DocName: doc, DocContent: content}
}

func get(doc string) docstore.Request {
	return docstore.Request{Type: docstore.Get, DocName: doc}
}

// spec.md §8 scenario 2: route by ring successor, no vnodes. hash_uint(1) >
// hash_uint(2), and hash_string("X") falls between them, so it routes to
// server 1, the higher-hash of the two.
func TestBalancer_Scenario2_RouteByRingSuccessorNoVnodes(t *testing.T) {
	lb := balancer.New(false)
	lb.AddServer(1, 8)
	lb.AddServer(2, 8)

	ack, err := lb.HandleRequest(edit("X", "V"), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), ack.ServerID)

	resp, err := lb.HandleRequest(get("X"), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), resp.ServerID)
	require.Equal(t, "V", resp.ServerResponse)
}

// spec.md §8 scenario 3: add causes migration. Server 2's hash sorts before
// server 1's, so once added it becomes the ring's wraparound owner of any
// key whose hash exceeds server 1's — exactly where hash_string("k") falls.
func TestBalancer_Scenario3_AddCausesMigration(t *testing.T) {
	lb := balancer.New(false)
	lb.AddServer(1, 8)

	_, err := lb.HandleRequest(edit("k", "V"), nil)
	require.NoError(t, err)

	// AddServer drains the donor itself before migrating keys (spec.md
	// §4.6.1), so the pending edit above is applied before "k" moves.
	lb.AddServer(2, 8)

	resp, err := lb.HandleRequest(get("k"), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(2), resp.ServerID)
	require.Equal(t, "V", resp.ServerResponse)
}

// spec.md §8 scenario 4: remove causes merge. With servers {1,2}, key "k"
// lives on 2 (same placement as scenario 3). Removing 2 must merge its
// store back onto 1, the only remaining server.
func TestBalancer_Scenario4_RemoveCausesMerge(t *testing.T) {
	lb := balancer.New(false)
	lb.AddServer(1, 8)
	lb.AddServer(2, 8)

	_, err := lb.HandleRequest(edit("k", "V"), nil)
	require.NoError(t, err)
	place, err := lb.HandleRequest(get("k"), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(2), place.ServerID)
	require.Equal(t, "V", place.ServerResponse)

	lb.RemoveServer(2)

	resp, err := lb.HandleRequest(get("k"), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), resp.ServerID)
	require.Equal(t, "V", resp.ServerResponse)
}

// spec.md §8 scenario 6: vnodes read routing. Doc "h" hashes strictly
// between the primary's own hash and v1's, so v1 (id 100001) is the replica
// whose own hash is the smallest one exceeding the query hash.
func TestBalancer_Scenario6_VnodesReadRouting(t *testing.T) {
	lb := balancer.New(true)
	lb.AddServer(1, 8)

	ack, err := lb.HandleRequest(edit("h", "D"), nil)
	require.NoError(t, err)
	// EDIT isn't subject to the vnode read refinement (spec.md §4.6.3's
	// "under vnodes, for READ only"), so this uses the unrefined successor
	// of "h"'s hash, which is v1 (id 100001), not the primary.
	require.Equal(t, uint32(100001), ack.ServerID)

	resp, err := lb.HandleRequest(get("h"), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(100001), resp.ServerID)
	require.Equal(t, "D", resp.ServerResponse)
}

// When no same-primary entry's own hash exceeds the query hash, routing
// falls back to the initial wraparound selection (spec.md §4.6.3).
func TestBalancer_VnodesReadRouting_FallsBackToInitialSelection(t *testing.T) {
	lb := balancer.New(true)
	lb.AddServer(1, 8)

	_, err := lb.HandleRequest(edit("a", "Z"), nil)
	require.NoError(t, err)

	resp, err := lb.HandleRequest(get("a"), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), resp.ServerID)
	require.Equal(t, "Z", resp.ServerResponse)
}

func TestBalancer_RouteEmptyRing(t *testing.T) {
	lb := balancer.New(false)
	_, err := lb.Route(get("anything"))
	require.ErrorIs(t, err, balancer.ErrEmptyRing)
}

func TestBalancer_RemoveUnknownServerIsNoop(t *testing.T) {
	lb := balancer.New(false)
	lb.AddServer(1, 8)
	lb.RemoveServer(99)
	require.Equal(t, 1, lb.RingSize())
}

// Unique ownership, as seen through routing: with three servers (and their
// replicas) on the ring, repeated reads of each written key resolve to the
// same server and return the value written.
func TestBalancer_UniqueOwnership(t *testing.T) {
	lb := balancer.New(true)
	lb.AddServer(1, 8)
	lb.AddServer(2, 8)
	lb.AddServer(3, 8)

	docs := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	owners := make(map[string]uint32)
	for _, d := range docs {
		_, err := lb.HandleRequest(edit(d, d+"-v1"), nil)
		require.NoError(t, err)
		resp, err := lb.HandleRequest(get(d), nil)
		require.NoError(t, err)
		owners[d] = resp.ServerID
	}

	for _, d := range docs {
		resp, err := lb.HandleRequest(get(d), nil)
		require.NoError(t, err)
		require.Equal(t, owners[d], resp.ServerID, "routing for %q must be stable", d)
		require.Equal(t, d+"-v1", resp.ServerResponse)
	}
}

// Read-your-writes across rebalance: an edit acknowledged before a topology
// change is visible afterward (spec.md §8).
func TestBalancer_ReadYourWritesAcrossRebalance(t *testing.T) {
	lb := balancer.New(false)
	lb.AddServer(1, 8)

	_, err := lb.HandleRequest(edit("doc", "hello"), nil)
	require.NoError(t, err)
	_, err = lb.HandleRequest(get("doc"), nil) // drain before the add
	require.NoError(t, err)

	lb.AddServer(7, 8)

	resp, err := lb.HandleRequest(get("doc"), nil)
	require.NoError(t, err)
	require.Equal(t, "hello", resp.ServerResponse)
}

// Concurrency safety: many goroutines issuing AddServer/Route/HandleRequest
// through the boundary mutex must not race (run with -race).
func TestBalancer_ConcurrentAccessRaceFree(t *testing.T) {
	lb := balancer.New(true)
	lb.AddServer(1, 4)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 32; i++ {
		i := i
		g.Go(func() error {
			doc := "doc"
			_, err := lb.HandleRequest(edit(doc, "v"), nil)
			if err != nil {
				return err
			}
			_, err = lb.HandleRequest(get(doc), nil)
			return err
		})
		if i == 16 {
			g.Go(func() error {
				lb.AddServer(uint32(10+i), 4)
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())
}
