package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/esgrid/internal/db"
)

// nextScript raises the counter to the floor if it lags, then increments it.
const nextScript = `local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if cur < floor then cur = floor end
cur = cur + 1
redis.call('SET', KEYS[1], cur)
return cur`

// Next returns max(current, floor)+1 and stores it in one atomic script call.
func (s *Store) Next(ctx context.Context, key string, floor int64) (int64, error) {
	cmd := s.b().Eval().Script(nextScript).Numkeys(1).Key(key).Arg(strconv.FormatInt(floor, 10)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpEval, Err: err}
	}
	return n, nil
}

// Reset overwrites the counter. Used after an index is rebuilt from seed.
func (s *Store) Reset(ctx context.Context, key string, value int64) error {
	cmd := s.b().Set().Key(key).Value(strconv.FormatInt(value, 10)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}
