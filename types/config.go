package types

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"text2phenotype.com/nsd/logger"
)

const (
	// scope resolution strategies
	NegexStrategy  = "negex"
	DeepenStrategy = "deepen"
)

// Configuration is one named processing setup, loaded from a YAML file.
type Configuration struct {
	Name               string `json:"name"`
	FilePath           string `json:"file_path"`
	Strategy           string `yaml:"strategy" json:"strategy"`
	RulesFile          string `yaml:"rules_file" json:"rules_file"`
	Window             int    `yaml:"window" json:"window"`
	MaxScopeIterations int    `yaml:"max_scope_iterations" json:"max_scope_iterations"`
}

// LoadConfigurations reads every *.yaml file in dirPath. Files that do
// not parse or name an unknown strategy are logged and dropped.
func LoadConfigurations(dirPath string) ([]Configuration, error) {
	nsdLogger := logger.NewLogger("LoadConfigurations")

	files, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(file os.FileInfo) {
			defer wg.Done()
			cfg := Configuration{
				Name:     strings.TrimSuffix(file.Name(), ".yaml"),
				FilePath: path.Join(dirPath, file.Name()),
			}
			buf, err := ioutil.ReadFile(cfg.FilePath)
			if err != nil {
				nsdLogger.Err(err)
				return
			}
			if err := yaml.Unmarshal(buf, &cfg); err != nil {
				nsdLogger.Err(err)
				return
			}

			if cfg.Strategy != NegexStrategy && cfg.Strategy != DeepenStrategy {
				nsdLogger.Err(fmt.Errorf("configuration %s: unknown strategy %q", cfg.Name, cfg.Strategy))
				return
			}

			configChan <- cfg
		}(f)
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	return configs, nil
}
