package doccms

import "fmt"

// postProjection is the shared field projection for post queries. References
// are dereferenced inline so one round trip returns a complete document.
const postProjection = `{
  _id,
  _createdAt,
  _updatedAt,
  title,
  "slug": slug.current,
  excerpt,
  body,
  publishedAt,
  "author": author->{_id, name},
  "category": category->{_id, name, "slug": slug.current},
  "tags": tags[]->{_id, name, "slug": slug.current},
  heroImageUrl,
  seoTitle,
  seoDescription,
  allowComments,
  kind,
  videoUrl,
  audioUrl,
  galleryUrls
}`

// publishedFilter keeps only live documents with a publish date in the past.
const publishedFilter = `!(_id in path("drafts.**")) && defined(publishedAt) && publishedAt <= now()`

// visibilityFilter restricts public reads to published documents; with
// $includeDrafts the drafts namespace and future publish dates pass through
// too. Bound as a parameter so the query text is static.
const visibilityFilter = `($includeDrafts || (` + publishedFilter + `))`

func listPostsQuery() string {
	return fmt.Sprintf(
		`*[_type == "post" && %s] | order(_createdAt desc) [$offset...$end] %s`,
		visibilityFilter, postProjection,
	)
}

func postBySlugQuery() string {
	return fmt.Sprintf(
		`*[_type == "post" && slug.current == $slug && %s] | order(_updatedAt desc) [0] %s`,
		visibilityFilter, postProjection,
	)
}

// postByIDQuery matches the live document or its draft twin; the draft arm is
// neutralized by the visibility filter on public reads.
func postByIDQuery() string {
	return fmt.Sprintf(
		`*[_type == "post" && (_id == $id || _id == "drafts." + $id) && %s] | order(_updatedAt desc) [0] %s`,
		visibilityFilter, postProjection,
	)
}

// searchPostsQuery combines the optional filters with AND semantics. Every
// filter collapses to true when its parameter is empty.
func searchPostsQuery(order string) string {
	return fmt.Sprintf(
		`*[_type == "post" && %s
  && ($query == "" || title match $query + "*" || excerpt match $query + "*")
  && (count($tags) == 0 || count((tags[]->name)[@ in $tags]) == count($tags))
  && (count($categories) == 0 || category->name in $categories)
  && (count($authors) == 0 || author->name in $authors)
] | order(%s) [$offset...$end] %s`,
		publishedFilter, order, postProjection,
	)
}

func listTermsQuery(docType string) string {
	return fmt.Sprintf(
		`*[_type == %q] | order(name asc) {_id, name, "slug": slug.current}`,
		docType,
	)
}

func sitemapQuery() string {
	return fmt.Sprintf(
		`*[_type == "post" && %s] | order(publishedAt desc) {"slug": slug.current, _updatedAt, publishedAt}`,
		publishedFilter,
	)
}

func rssQuery() string {
	return fmt.Sprintf(
		`*[_type == "post" && %s] | order(publishedAt desc) [0...$limit] {_id, "slug": slug.current, title, excerpt, publishedAt}`,
		publishedFilter,
	)
}

const tagsByNameQuery = `*[_type == "tag" && name in $names] {_id, name, "slug": slug.current}`

// currentIDQuery resolves which concrete document id (live or draft) holds a
// post right now.
const currentIDQuery = `*[_id == $id || _id == "drafts." + $id] | order(_updatedAt desc) [0]._id`
