// Package crawl — BFS queue with deduplication and a size bound.
package crawl

// Queue is a BFS queue with URL deduplication. It stops accepting URLs
// once limit unique URLs have been added.
type Queue struct {
	items   []string
	visited map[string]struct{}
	idx     int
	limit   int
}

// NewQueue creates an empty Queue holding at most limit URLs.
// A limit <= 0 means unbounded.
func NewQueue(limit int) *Queue {
	return &Queue{
		visited: make(map[string]struct{}),
		limit:   limit,
	}
}

// Add enqueues a URL if it hasn't been seen before and the queue is not
// full. It reports whether the URL was added.
func (q *Queue) Add(url string) bool {
	if _, seen := q.visited[url]; seen || q.Full() {
		return false
	}
	q.visited[url] = struct{}{}
	q.items = append(q.items, url)
	return true
}

// Full reports whether the limit has been reached.
func (q *Queue) Full() bool {
	return q.limit > 0 && len(q.items) >= q.limit
}

// HasNext returns true if there are unprocessed URLs.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed URL and advances the pointer.
func (q *Queue) Next() string {
	url := q.items[q.idx]
	q.idx++
	return url
}

// Len returns the number of unique URLs accepted.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns all accepted URLs in BFS order.
func (q *Queue) All() []string {
	return q.items
}
