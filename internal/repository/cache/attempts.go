package cache

// AttemptCounter counts events per key inside a fixed window given by the
// TTL of the underlying cache.
type AttemptCounter struct {
	cch   KV
	limit int
}

func NewAttemptCounter(cch KV, limit int) *AttemptCounter {
	return &AttemptCounter{cch: cch, limit: limit}
}

func (a *AttemptCounter) Hit(key string) int {
	v := a.cch.Update(key, func(old any, ok bool) any {
		n, _ := old.(int)
		return n + 1
	})
	n, _ := v.(int)
	return n
}

func (a *AttemptCounter) Count(key string) int {
	v, ok := a.cch.Get(key)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}

// Exceeded reports whether key already used up its attempts.
func (a *AttemptCounter) Exceeded(key string) bool {
	return a.limit > 0 && a.Count(key) >= a.limit
}

func (a *AttemptCounter) Clear(key string) {
	a.cch.Delete(key)
}
