package classifier

import (
	"math/rand/v2"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// LabelSet is the ordered list of class names a model was trained on.
type LabelSet []string

type labelsFile struct {
	Labels []string `yaml:"labels"`
}

func LoadLabels(path string) (LabelSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't read labels file")
	}
	labels, err := ParseLabels(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid labels file %s", path)
	}
	return labels, nil
}

// ParseLabels reads a YAML document of the form "labels: [apple, banana]".
func ParseLabels(data []byte) (LabelSet, error) {
	var f labelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "can't parse labels")
	}
	labels := LabelSet(f.Labels)
	if err := labels.Validate(); err != nil {
		return nil, err
	}
	return labels, nil
}

func (l LabelSet) Validate() error {
	if len(l) == 0 {
		return errors.New("label set is empty")
	}
	seen := make(map[string]bool, len(l))
	for i, label := range l {
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			return errors.Errorf("label %d is blank", i)
		}
		if seen[key] {
			return errors.Errorf("duplicate label %q", label)
		}
		seen[key] = true
	}
	return nil
}

// Index returns the position of label, ignoring case, or -1.
func (l LabelSet) Index(label string) int {
	for i, candidate := range l {
		if strings.EqualFold(candidate, label) {
			return i
		}
	}
	return -1
}

// Random picks a label for a drawing round.
func (l LabelSet) Random() string {
	if len(l) == 0 {
		return ""
	}
	return l[rand.IntN(len(l))]
}

func (l LabelSet) Marshal() ([]byte, error) {
	return yaml.Marshal(labelsFile{Labels: l})
}
