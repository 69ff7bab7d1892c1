package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Engine    bool
	Transport bool
	Handler   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Engine = boolEnv("PJ_DEBUG_ENGINE")
	d.Transport = boolEnv("PJ_DEBUG_TRANSPORT")
	d.Handler = boolEnv("PJ_DEBUG_HANDLER")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Engine() bool {
	return d.Engine
}
func Transport() bool {
	return d.Transport
}
func Handler() bool {
	return d.Handler
}
