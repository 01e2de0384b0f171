// Package bridge 是页面一侧的宿主桥客户端：把请求序列化成 JSON 文本，交给宿主提供的同步调用点。
//
// 客户端只负责“发出去”，不等待也不处理宿主的回应；宿主稍后会通过页面暴露的渲染函数把数据推回来。
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"never-notes/internal/domain/model"
)

// ErrHostUnavailable 表示宿主桥尚未注入（或根本不存在）。
// 请求不会排队，也不会重试。
var ErrHostUnavailable = errors.New("bridge: host unavailable")

// Host 是宿主提供的投递函数。
type Host interface {
	Invoke(payload string) error
}

// HostFunc 让普通函数满足 Host。
type HostFunc func(payload string) error

func (f HostFunc) Invoke(payload string) error { return f(payload) }

// Client 把结构化请求交给宿主。
type Client struct {
	host Host
}

func NewClient(host Host) *Client {
	return &Client{host: host}
}

// Send 序列化 req 并调用一次宿主投递函数。
// 序列化失败时宿主不会被调用。
func (c *Client) Send(req any) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if c == nil || c.host == nil {
		return ErrHostUnavailable
	}
	if err := c.host.Invoke(string(raw)); err != nil {
		return fmt.Errorf("invoke host: %w", err)
	}
	return nil
}

// RequestUpdate 通知宿主页面已就绪，请推送当前笔记列表。
func (c *Client) RequestUpdate() error {
	return c.Send(model.Request{Type: model.RequestUpdate})
}
