package wss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextMessage(t *testing.T) {
	msg := Text("hello")
	assert.Equal(t, TextMessage, msg.Type)
	assert.True(t, msg.Valid())
	assert.Equal(t, []byte("hello"), msg.payload())
}

func TestBinaryMessage(t *testing.T) {
	msg := Binary([]byte{0x01, 0x02})
	assert.Equal(t, BinaryMessage, msg.Type)
	assert.True(t, msg.Valid())
	assert.Equal(t, []byte{0x01, 0x02}, msg.payload())
}

func TestInvalidMessage(t *testing.T) {
	// 零值消息没有合法的载荷类型
	assert.False(t, Message{}.Valid())
	assert.False(t, Message{Type: 99, Text: "x"}.Valid())
}

func TestConnectionIDUnique(t *testing.T) {
	// 同一远端地址重连也会得到不同标识符
	a := newConnectionID("127.0.0.1:50001")
	b := newConnectionID("127.0.0.1:50001")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "127.0.0.1:50001#")
}
