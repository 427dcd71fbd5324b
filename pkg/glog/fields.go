package glog

import (
	"go.uber.org/zap"
)

// 账户、交易和 receipt 相关日志统一使用的字段名
const (
	KeyAccount = "account"
	KeyTx      = "tx"
	KeyReceipt = "receipt"
	KeyMethod  = "method"
)

func Account(id string) zap.Field {
	return zap.String(KeyAccount, id)
}

func Tx(id uint64) zap.Field {
	return zap.Uint64(KeyTx, id)
}

func Receipt(id uint64) zap.Field {
	return zap.Uint64(KeyReceipt, id)
}

func Method(name string) zap.Field {
	return zap.String(KeyMethod, name)
}

// Panic recover 得到的值
func Panic(r interface{}) zap.Field {
	return zap.Any("panic", r)
}
