package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"

	"github.com/goccy/go-yaml"
)

// Step is one message of a stream, sent after Delay.
type Step struct {
	Delay   time.Duration
	Message *message.Message
}

// Stream produces the steps of one response. It is called per request so
// that keys and timestamps are fresh.
type Stream func(now time.Time) []Step

type scriptFile struct {
	Steps []struct {
		// durations are kept as text and parsed with time.ParseDuration
		Delay   string `yaml:"delay"`
		Message any    `yaml:"message"`
	} `yaml:"steps"`
}

// LoadScript reads a YAML script. Every message is validated as it would
// be by a client.
func LoadScript(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) ([]Step, error) {
	var sf scriptFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(sf.Steps))
	for i, s := range sf.Steps {
		var step Step
		if s.Delay != "" {
			d, err := time.ParseDuration(s.Delay)
			if err != nil {
				return nil, fmt.Errorf("step %d: delay: %w", i, err)
			}
			step.Delay = d
		}
		node, err := ir.FromAny(s.Message)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		line, err := node.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		msg, err := message.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		step.Message = msg
		steps = append(steps, step)
	}
	return steps, nil
}

// LoadScripts reads every .yaml and .yml file of dir. Streams are named
// after the file without extension.
func LoadScripts(dir string) (map[string][]Step, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	res := map[string][]Step{}
	for _, ent := range entries {
		ext := filepath.Ext(ent.Name())
		if ent.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		steps, err := LoadScript(filepath.Join(dir, ent.Name()))
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", ent.Name(), err)
		}
		res[strings.TrimSuffix(ent.Name(), ext)] = steps
	}
	return res, nil
}
