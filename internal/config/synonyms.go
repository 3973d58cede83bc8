package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brainer3220/law-sub000/configs"
	lawerrors "github.com/brainer3220/law-sub000/internal/errors"
)

// LoadSynonyms returns the synonym dictionary for this process: the YAML
// file at path when set, otherwise the embedded default dictionary. The
// result is loaded once at startup and treated as immutable afterwards.
func LoadSynonyms(path string) (map[string][]string, error) {
	data := []byte(configs.DefaultSynonymsYAML)
	source := "embedded"

	if path != "" {
		external, err := os.ReadFile(path)
		if err != nil {
			return nil, lawerrors.New(lawerrors.ErrCodeSynonymsInvalid,
				fmt.Sprintf("cannot read synonym dictionary %s", path), err)
		}
		data = external
		source = path
	}

	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, lawerrors.New(lawerrors.ErrCodeSynonymsInvalid,
			fmt.Sprintf("cannot parse synonym dictionary (%s)", source), err)
	}
	if len(table) == 0 {
		return nil, lawerrors.New(lawerrors.ErrCodeSynonymsInvalid,
			fmt.Sprintf("synonym dictionary is empty (%s)", source), nil)
	}
	return table, nil
}
