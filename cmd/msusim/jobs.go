package main

import (
	"math/big"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/msusim/driver"
)

// jobEntry is one entry of a job file.
type jobEntry struct {
	ID     string `yaml:"id"`
	TStart uint64 `yaml:"t_start"`
	TFinal uint64 `yaml:"t_final"`
	Input  string `yaml:"input"`
}

type jobFile struct {
	Jobs []jobEntry `yaml:"jobs"`
}

// loadJobs reads a YAML job file.
func loadJobs(path string) ([]*driver.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read job file")
	}

	var f jobFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse job file")
	}
	if len(f.Jobs) == 0 {
		return nil, errors.Errorf("no jobs in %s", path)
	}

	jobs := make([]*driver.Job, 0, len(f.Jobs))
	for i, s := range f.Jobs {
		job, err := s.job()
		if err != nil {
			return nil, errors.Wrapf(err, "job %d", i)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s jobEntry) job() (*driver.Job, error) {
	x, err := parseInt(s.Input)
	if err != nil {
		return nil, err
	}

	job := driver.NewJob(s.TStart, s.TFinal, x)
	if s.ID != "" {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid job id %q", s.ID)
		}
		job.ID = id
	}
	return job, nil
}

// parseInt reads a decimal or 0x-prefixed hex integer.
func parseInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("missing input value")
	}
	x, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, errors.Errorf("invalid integer %q", s)
	}
	return x, nil
}
