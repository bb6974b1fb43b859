package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/bpsolver/bpsolver/pkg/api"
)

func LoadInstanceFile(file string) (*api.Instance, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	inst := &api.Instance{}
	if err := yaml.Unmarshal(data, inst); err != nil {
		return nil, fmt.Errorf("failed to parse instance file %s: %v", file, err)
	}
	return inst, nil
}

func WriteInstanceFile(file string, inst *api.Instance) error {
	data, err := yaml.Marshal(inst)
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0660)
}
