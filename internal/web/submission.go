package web

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// rememberedSubmissions bounds how many completed form tokens are kept.
const rememberedSubmissions = 1024

// submissionGuard runs a create form's insert at most once per submission
// token. Requests that overlap the first one share its result; requests
// that arrive after it finished get the remembered report id. Failed
// attempts are not remembered, so the user can retry the same form.
type submissionGuard struct {
	inflight singleflight.Group
	done     *lru.Cache[string, int64]
}

func newSubmissionGuard(size int) *submissionGuard {
	done, err := lru.New[string, int64](size)
	if err != nil {
		panic(err)
	}
	return &submissionGuard{done: done}
}

// Do returns the id of the report created for token, calling create only if
// no earlier request with the same token has succeeded or is still running.
// replayed is true when this call did not run create itself. An empty token
// disables the guard.
func (g *submissionGuard) Do(token string, create func() (int64, error)) (id int64, replayed bool, err error) {
	if token == "" {
		id, err = create()
		return id, false, err
	}
	if id, ok := g.done.Get(token); ok {
		return id, true, nil
	}

	ran := false
	v, err, _ := g.inflight.Do(token, func() (any, error) {
		// The previous holder of the key may have finished after the check above.
		if id, ok := g.done.Get(token); ok {
			return id, nil
		}
		ran = true
		id, err := create()
		if err != nil {
			return int64(0), err
		}
		g.done.Add(token, id)
		return id, nil
	})
	if err != nil {
		return 0, !ran, err
	}
	return v.(int64), !ran, nil
}
