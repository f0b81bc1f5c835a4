package queue

// Queue is an ordered list of target URLs. A URL is only ever handed out
// once per run; re-adding a queued or visited URL is ignored.
type Queue struct {
	urls    []string
	queued  map[string]bool
	visited map[string]bool
}

// New creates a queue holding urls in order
func New(urls ...string) *Queue {
	q := &Queue{
		queued:  make(map[string]bool),
		visited: make(map[string]bool),
	}
	for _, u := range urls {
		q.Add(u)
	}
	return q
}

// Add appends a URL unless it is empty, queued or already visited
func (q *Queue) Add(url string) bool {
	if url == "" || q.queued[url] || q.visited[url] {
		return false
	}
	q.urls = append(q.urls, url)
	q.queued[url] = true
	return true
}

// Next returns the next URL to process and marks it as visited
func (q *Queue) Next() (string, bool) {
	if len(q.urls) == 0 {
		return "", false
	}

	url := q.urls[0]
	q.urls = q.urls[1:]
	delete(q.queued, url)
	q.visited[url] = true

	return url, true
}

// Len returns the number of URLs still waiting
func (q *Queue) Len() int {
	return len(q.urls)
}

// VisitedCount returns the number of URLs handed out so far
func (q *Queue) VisitedCount() int {
	return len(q.visited)
}
