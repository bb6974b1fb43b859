package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/api/bpsolver"
	"github.com/bpsolver/bpsolver/pkg/cache"
	"github.com/bpsolver/bpsolver/pkg/config"
	"github.com/bpsolver/bpsolver/pkg/solver"
)

func loadConfig(file string) (*bpsolver.Config, error) {
	if file == "" {
		return bpsolver.DefaultConfig(), nil
	}
	return config.LoadConfigFile(file)
}

// parseSizes accepts sizes as separate arguments, comma separated, or both.
func parseSizes(args []string) ([]int, error) {
	sizes := []int{}
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			size, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("invalid item size %q: %v", field, err)
			}
			sizes = append(sizes, size)
		}
	}
	return sizes, nil
}

// loadInstance reads the instance from file or builds it from the sizes on
// the command line.
func loadInstance(file string, args []string, bins, capacity int) (*api.Instance, error) {
	if file != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("item sizes can't be given together with an instance file")
		}
		return config.LoadInstanceFile(file)
	}
	sizes, err := parseSizes(args)
	if err != nil {
		return nil, err
	}
	return &api.Instance{Items: sizes, Bins: bins, Capacity: capacity}, nil
}

func cachePath(cfg *bpsolver.Config) (string, error) {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	return cache.DefaultPath()
}

// toOptions turns a validated configuration into solver options. The
// returned cache is nil unless caching is enabled.
func toOptions(cfg *bpsolver.Config) ([]solver.Option, *cache.VerdictCache, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}
	backend, err := api.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	timeout, err := config.Timeout(cfg)
	if err != nil {
		return nil, nil, err
	}
	parallelism := cfg.Parallelism
	if parallelism == 0 {
		parallelism = 1
	}
	opts := []solver.Option{
		solver.WithBackend(backend),
		solver.WithPreflight(cfg.Preflight),
		solver.WithTimeout(timeout),
		solver.WithNodeLimit(cfg.NodeLimit),
		solver.WithParallelism(parallelism),
	}

	if !cfg.Cache.Enabled {
		return opts, nil, nil
	}
	path, err := cachePath(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to determine cache location: %v", err)
	}
	c, err := cache.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return append(opts, solver.WithCache(c)), c, nil
}
