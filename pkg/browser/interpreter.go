package browser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagedrive/pkg/config"
)

// Method identifies an operation variant. The set is closed: navigate,
// click, and fill are the only operations a sequence can carry.
type Method string

const (
	MethodNavigate Method = "navigate"
	MethodClick    Method = "click"
	MethodFill     Method = "fill"
)

// Operation is one declarative step of a sequence. Target is a URL for
// navigate and a registry name for click and fill. Content applies only
// to fill; a nil Content makes the fill step a silent no-op.
type Operation struct {
	Method  Method  `yaml:"method" json:"method"`
	Target  string  `yaml:"target" json:"target"`
	Content *string `yaml:"content,omitempty" json:"content,omitempty"`
}

// Navigate builds a navigation step.
func Navigate(url string) Operation {
	return Operation{Method: MethodNavigate, Target: url}
}

// Click builds a click step on a registered element name.
func Click(target string) Operation {
	return Operation{Method: MethodClick, Target: target}
}

// Fill builds a fill step with present content. Fill steps with absent
// content only arise from deserialized sequences.
func Fill(target, content string) Operation {
	return Operation{Method: MethodFill, Target: target, Content: &content}
}

// validate checks the per-variant required fields.
func (op Operation) validate() error {
	switch op.Method {
	case MethodNavigate, MethodClick, MethodFill:
	default:
		return fmt.Errorf("%w: unknown operation method %q", config.ErrConfiguration, op.Method)
	}
	if op.Target == "" {
		return fmt.Errorf("%w: %s operation requires a target", config.ErrConfiguration, op.Method)
	}
	return nil
}

// Run executes the operations strictly in order, one at a time. Ordering
// is the sole source of truth: there is no reordering and no parallel
// dispatch. Each step's driver interactions are individually retried;
// the first step whose retries are exhausted aborts the sequence, later
// steps never run, and already-applied steps are not rolled back.
func (s *Session) Run(operations []Operation) error {
	for i, op := range operations {
		if err := op.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		s.log.Infof("step %d/%d: %s %s", i+1, len(operations), op.Method, op.Target)

		var err error
		switch op.Method {
		case MethodNavigate:
			err = s.Navigate(op.Target)
		case MethodClick:
			err = s.Click(op.Target)
		case MethodFill:
			err = s.Fill(op.Target, op.Content)
		}

		if err != nil {
			return fmt.Errorf("step %d (%s %q): %w", i+1, op.Method, op.Target, err)
		}
	}
	return nil
}

// LoadOperations reads a YAML operation sequence from path and validates
// every step. The file is a plain list:
//
//	- method: navigate
//	  target: https://example.test/
//	- method: fill
//	  target: search_box
//	  content: hello
//	- method: click
//	  target: search_button
func LoadOperations(path string) ([]Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", config.ErrConfiguration, path, err)
	}

	var operations []Operation
	if err := yaml.Unmarshal(data, &operations); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", config.ErrConfiguration, path, err)
	}

	for i, op := range operations {
		if err := op.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return operations, nil
}
