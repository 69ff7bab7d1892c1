package server

import (
	"fmt"
	"time"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
)

const DemoStream = "demo"

func obj(kvs ...any) *ir.Node {
	fields := make([]string, 0, len(kvs)/2)
	values := make([]*ir.Node, 0, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		v, err := ir.FromAny(kvs[i+1])
		if err != nil {
			panic(err)
		}
		fields = append(fields, kvs[i].(string))
		values = append(values, v)
	}
	return ir.FromFields(fields, values)
}

func demoItem(i int, now time.Time) *ir.Node {
	status := "active"
	if i%2 != 0 {
		status = "pending"
	}
	return obj(
		"id", i,
		"text", fmt.Sprintf("Item %d", i),
		"timestamp", now.UnixMilli(),
		"status", status,
	)
}

// Demo resolves a user profile, a list of posts and a growing list of
// items, with pauses in between.
func Demo(now time.Time) []Step {
	var keys message.KeyGen
	var (
		userName      = keys.Next()
		userAvatar    = keys.Next()
		posts         = keys.Next()
		notifications = keys.Next()
		thirdPost     = keys.Next()
		items         = keys.Next()
	)
	ms := time.Millisecond
	steps := []Step{
		{Message: message.Init(obj(
			"user", obj("name", userName, "age", 30, "avatar", userAvatar),
			"posts", posts,
			"config", obj("theme", "dark", "notifications", notifications),
			"staticData", "Loaded!",
		))},
		{Delay: 150 * ms, Message: message.Value(userName, ir.FromString("Alice"))},
		{Delay: 150 * ms, Message: message.Value(userAvatar, ir.FromString("https://example.com/avatar.png"))},
		{Delay: 450 * ms, Message: message.Value(posts, ir.FromSlice([]*ir.Node{
			obj("id", 1, "title", "First Post", "content", "Hello world!"),
			obj("id", 2, "title", "Second Post", "content", "Another post."),
			ir.FromString(thirdPost),
		}))},
		{Delay: 150 * ms, Message: message.Value(notifications, ir.FromBool(true))},
		{Delay: 100 * ms, Message: message.Value(thirdPost, obj(
			"id", 3,
			"title", "Third Post",
			"content", "More content here.",
			"items", items,
		))},
	}
	for i := range 4 {
		delay := 500 * ms
		if i == 0 {
			delay += 50 * ms
		}
		steps = append(steps, Step{Delay: delay, Message: message.Push(items, demoItem(i, now))})
	}
	batch := make([]*ir.Node, 4)
	for i := range batch {
		batch[i] = demoItem(i+4, now)
	}
	steps = append(steps, Step{Delay: 100 * ms, Message: message.Concat(items, batch...)})
	return steps
}
