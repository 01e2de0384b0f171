// Package page 把宿主桥客户端和列表渲染器组装成页面：加载时请求一次数据，宿主回调时刷新列表。
package page

import (
	"fmt"

	"never-notes/internal/ui/bridge"
)

// ListRenderer 是页面对列表渲染器的依赖。
type ListRenderer interface {
	Render(names []string) error
}

// Page 在单线程事件循环里使用，不做并发保护。
type Page struct {
	client  *bridge.Client
	list    ListRenderer
	started bool
}

func New(client *bridge.Client, list ListRenderer) *Page {
	return &Page{client: client, list: list}
}

// Start 是加载触发点：向宿主发送一次 update 请求。
// 同一页面实例只会真正发送一次，之后的调用直接返回。
func (p *Page) Start() error {
	if p.started {
		return nil
	}
	p.started = true
	if err := p.client.RequestUpdate(); err != nil {
		return fmt.Errorf("request note list: %w", err)
	}
	return nil
}

// UpdateNoteList 是宿主回调的入口。
func (p *Page) UpdateNoteList(names []string) error {
	return p.list.Render(names)
}
