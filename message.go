package wss

import "github.com/gorilla/websocket"

// MessageType 消息类型，取值与 WebSocket 帧类型一致
type MessageType int

const (
	// TextMessage 文本消息
	TextMessage MessageType = websocket.TextMessage
	// BinaryMessage 二进制消息
	BinaryMessage MessageType = websocket.BinaryMessage
)

// Message 出站消息，文本与二进制二选一
type Message struct {
	Type MessageType
	Text string
	Data []byte
}

// Text 创建文本消息
func Text(s string) Message {
	return Message{Type: TextMessage, Text: s}
}

// Binary 创建二进制消息
func Binary(b []byte) Message {
	return Message{Type: BinaryMessage, Data: b}
}

// Valid 检查消息载荷类型是否合法
func (m Message) Valid() bool {
	return m.Type == TextMessage || m.Type == BinaryMessage
}

// payload 返回写入传输层的字节
func (m Message) payload() []byte {
	if m.Type == TextMessage {
		return []byte(m.Text)
	}
	return m.Data
}
