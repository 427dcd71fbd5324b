package gate

import (
	"encoding/binary"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/pkg/errors"
)

type ICodec interface {
	Encode(msg *Message) []byte
	// Decode 数据不足一帧时返回 nil, 0, nil
	Decode(buf []byte) (*Message, int, error)
}

var _ ICodec = (*Codec)(nil)

type Codec struct {
	maxFrame int
}

func NewCodec(maxFrame int) *Codec {
	return &Codec{maxFrame: maxFrame}
}

func (*Codec) Encode(msg *Message) []byte {
	msg.Len = uint32(len(msg.Data))
	buf := make([]byte, HeadLen+len(msg.Data))
	offset := 0
	binary.BigEndian.PutUint32(buf[offset:], msg.Len)
	offset += 4
	buf[offset] = msg.Cmd
	offset += 1
	binary.BigEndian.PutUint32(buf[offset:], msg.Index)
	offset += 4
	copy(buf[offset:], msg.Data)
	return buf
}

func (c *Codec) Decode(buf []byte) (*Message, int, error) {
	if len(buf) < HeadLen {
		return nil, 0, nil
	}
	l := binary.BigEndian.Uint32(buf)
	if c.maxFrame > 0 && int64(l) > int64(c.maxFrame) {
		return nil, 0, errors.Wrapf(errs.ErrFrameTooLarge, "%d > %d", l, c.maxFrame)
	}
	total := HeadLen + int(l)
	if len(buf) < total {
		return nil, 0, nil
	}

	msg := &Message{Head: &Head{}}
	offset := 0
	msg.Len = binary.BigEndian.Uint32(buf[offset : offset+4])
	offset += 4
	msg.Cmd = buf[offset]
	offset += 1
	msg.Index = binary.BigEndian.Uint32(buf[offset : offset+4])
	offset += 4
	msg.Data = make([]byte, msg.Len)
	copy(msg.Data, buf[offset:total])
	return msg, total, nil
}
