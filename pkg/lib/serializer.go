package lib

import (
	"encoding/json"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrMsgPackPack   = errors.New("msgpack打包错误")
	ErrMsgPackUnPack = errors.New("msgpack解析错误")
	ErrJsonPack      = errors.New("json打包错误")
	ErrJsonUnPack    = errors.New("json解析错误")
)

var (
	// Json 合约参数、返回值以及对端数据使用的编码
	Json ISerializer = new(jsonCodec)
	// MsgPack gate 帧体使用的编码
	MsgPack ISerializer = new(msgPackCodec)
)

type ISerializer interface {
	Unmarshal(data []byte, msg interface{}) error
	Marshal(msg interface{}) ([]byte, error)
}

type jsonCodec struct {
}

func (p *jsonCodec) Unmarshal(data []byte, msg interface{}) error {
	if data == nil || msg == nil {
		return ErrJsonUnPack
	}
	return json.Unmarshal(data, msg)
}

func (p *jsonCodec) Marshal(msg interface{}) ([]byte, error) {
	if msg == nil {
		return nil, ErrJsonPack
	}
	return json.Marshal(msg)
}

type msgPackCodec struct {
}

func (p *msgPackCodec) Unmarshal(data []byte, msg interface{}) error {
	if data == nil || msg == nil {
		return ErrMsgPackUnPack
	}
	return msgpack.Unmarshal(data, msg)
}

func (p *msgPackCodec) Marshal(msg interface{}) ([]byte, error) {
	if msg == nil {
		return nil, ErrMsgPackPack
	}
	return msgpack.Marshal(msg)
}
