package ledger

import (
	"context"
	stderrors "errors"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

const (
	DefaultRedisKey = "xcall:balances"
	// maxTxRetries WATCH 冲突时的最大重试次数
	maxTxRetries = 128
)

var _ Store = (*Redis)(nil)

// Redis 余额以十进制字符串保存在一个 hash 中，读改写使用 WATCH/MULTI
type Redis struct {
	client *redis.Client
	key    string
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Key 保存余额的 hash 名
	Key string
}

func NewRedis(opts RedisOptions) *Redis {
	key := opts.Key
	if key == "" {
		key = DefaultRedisKey
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &Redis{client: client, key: key}
}

// Ping 检查连接
func (r *Redis) Ping(ctx context.Context) error {
	return errors.Wrap(r.client.Ping(ctx).Err(), "redis ping")
}

func (r *Redis) Create(ctx context.Context, account iface.AccountId, initial balance.Balance) error {
	ok, err := r.client.HSetNX(ctx, r.key, account, initial.String()).Result()
	if err != nil {
		return errors.Wrapf(err, "redis create %s", account)
	}
	if !ok {
		return errs.ErrAccountDuplicated(account)
	}
	return nil
}

func (r *Redis) Exists(ctx context.Context, account iface.AccountId) (bool, error) {
	ok, err := r.client.HExists(ctx, r.key, account).Result()
	if err != nil {
		return false, errors.Wrapf(err, "redis exists %s", account)
	}
	return ok, nil
}

func (r *Redis) Balance(ctx context.Context, account iface.AccountId) (balance.Balance, error) {
	return r.get(ctx, r.client, account)
}

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func (r *Redis) get(ctx context.Context, getter hashGetter, account iface.AccountId) (balance.Balance, error) {
	value, err := getter.HGet(ctx, r.key, account).Result()
	if stderrors.Is(err, redis.Nil) {
		return balance.Balance{}, errs.ErrAccountMissing(account)
	}
	if err != nil {
		return balance.Balance{}, errors.Wrapf(err, "redis get %s", account)
	}
	b, err := balance.Parse(value)
	if err != nil {
		return balance.Balance{}, errors.Wrapf(err, "redis corrupted balance of %s", account)
	}
	return b, nil
}

func (r *Redis) Credit(ctx context.Context, account iface.AccountId, amount balance.Balance) (balance.Balance, error) {
	return r.update(ctx, account, amount, credit)
}

func (r *Redis) Debit(ctx context.Context, account iface.AccountId, amount balance.Balance) (balance.Balance, error) {
	return r.update(ctx, account, amount, debit)
}

func (r *Redis) update(ctx context.Context, account iface.AccountId, amount balance.Balance, op func(current, amount balance.Balance) (balance.Balance, error)) (balance.Balance, error) {
	var next balance.Balance
	txf := func(tx *redis.Tx) error {
		current, err := r.get(ctx, tx, account)
		if err != nil {
			return err
		}
		if next, err = op(current, amount); err != nil {
			return errors.WithMessagef(err, "ledger %s", account)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.key, account, next.String())
			return nil
		})
		return err
	}
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, r.key)
		if err == nil {
			return next, nil
		}
		if stderrors.Is(err, redis.TxFailedErr) {
			continue
		}
		return balance.Balance{}, err
	}
	return balance.Balance{}, errors.Errorf("redis update %s: too many conflicts", account)
}

func (r *Redis) Accounts(ctx context.Context) ([]iface.AccountId, error) {
	accounts, err := r.client.HKeys(ctx, r.key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis accounts")
	}
	slices.Sort(accounts)
	return accounts, nil
}

// Reset 删除所有账户
func (r *Redis) Reset(ctx context.Context) error {
	return errors.Wrap(r.client.Del(ctx, r.key).Err(), "redis reset")
}

func (r *Redis) Close() error {
	return r.client.Close()
}
