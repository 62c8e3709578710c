package restcms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/inkhouse/backend/internal/content/domain"
)

// batchChunkSize is the remote API's per-request ceiling on id-filtered
// collection reads. Larger id sets are split into multiple requests.
const batchChunkSize = 100

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// dedupeNames trims and de-duplicates tag names case-sensitively, preserving
// first-seen order. Blank names are dropped.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// fetchTermsByID resolves term ids (categories or tags) to taxonomy records
// in batches, each bounded by the remote per-request ceiling.
func (p *Provider) fetchTermsByID(ctx context.Context, endpoint string, ids []int64) (map[int64]domain.Taxonomy, error) {
	ids = dedupeIDs(ids)
	out := make(map[int64]domain.Taxonomy, len(ids))
	for _, chunk := range chunkIDs(ids, batchChunkSize) {
		query := url.Values{}
		query.Set("include", joinIDs(chunk))
		query.Set("per_page", strconv.Itoa(len(chunk)))

		var terms []remoteTerm
		if err := p.client.get(ctx, endpoint, query, &terms); err != nil {
			return nil, fmt.Errorf("fetch terms %s: %w", endpoint, err)
		}
		for _, term := range terms {
			out[term.ID] = domain.Taxonomy{
				ID:   strconv.FormatInt(term.ID, 10),
				Name: term.Name,
				Slug: term.Slug,
			}
		}
	}
	return out, nil
}

// fetchUsersByID resolves author ids to author records in batches.
func (p *Provider) fetchUsersByID(ctx context.Context, ids []int64) (map[int64]domain.Author, error) {
	ids = dedupeIDs(ids)
	out := make(map[int64]domain.Author, len(ids))
	for _, chunk := range chunkIDs(ids, batchChunkSize) {
		query := url.Values{}
		query.Set("include", joinIDs(chunk))
		query.Set("per_page", strconv.Itoa(len(chunk)))

		var users []remoteUser
		if err := p.client.get(ctx, "/users", query, &users); err != nil {
			return nil, fmt.Errorf("fetch users: %w", err)
		}
		for _, user := range users {
			out[user.ID] = domain.Author{
				ID:   strconv.FormatInt(user.ID, 10),
				Name: user.Name,
			}
		}
	}
	return out, nil
}

// findTermByName looks up a term by exact, case-sensitive name. The remote
// search parameter matches loosely, so candidates are re-checked locally.
func (p *Provider) findTermByName(ctx context.Context, endpoint, name string) (*remoteTerm, error) {
	query := url.Values{}
	query.Set("search", name)
	query.Set("per_page", strconv.Itoa(batchChunkSize))

	var terms []remoteTerm
	if err := p.client.get(ctx, endpoint, query, &terms); err != nil {
		return nil, fmt.Errorf("find term %s %q: %w", endpoint, name, err)
	}
	for i, term := range terms {
		if term.Name == name {
			return &terms[i], nil
		}
	}
	return nil, nil
}

// findOrCreateTag reuses an existing tag with the exact name or creates one.
// Callers resolve names serially; two concurrent writers racing on the same
// new name can still produce duplicates remotely, which the remote system
// resolves by rejecting the second create with the existing term's id.
func (p *Provider) findOrCreateTag(ctx context.Context, name string) (int64, error) {
	existing, err := p.findTermByName(ctx, "/tags", name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	var created remoteTerm
	payload := map[string]any{"name": name}
	if err := p.client.send(ctx, "POST", "/tags", nil, payload, &created); err != nil {
		return 0, fmt.Errorf("create tag %q: %w", name, err)
	}
	return created.ID, nil
}
