package driver

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sarchlab/msusim/codec"
)

// Run executes one job: start pulse, input stream, wait for the device to
// begin its transfer, result stream, drain. Output and TFinalOut are set
// only when the whole sequence completes.
func (d *Driver) Run(job *Job) error {
	if !d.reset {
		return ErrNotReset
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	log := d.log.WithValues("job", job.ID.String())

	words, err := d.codec.Pack(job.TStart, job.TFinal, job.Input)
	if err != nil {
		return errors.Wrapf(err, "job %s rejected", job.ID)
	}
	width := d.codec.WordWidth()
	log.V(1).Info("packed input",
		"t_start", job.TStart, "t_final", job.TFinal,
		"words", len(words), "value", fmt.Sprintf("%#x", words.Int(width)))

	d.watchdog.Acknowledge()
	if err := d.exchange(job, words); err != nil {
		log.Error(err, "job aborted", "phase", d.clock.Phase(), "cycle", d.clock.Cycles())
		return errors.Wrapf(err, "job %s", job.ID)
	}

	d.stats.Jobs++
	log.Info("job done", "t_final", job.TFinalOut, "cycle", d.clock.Cycles())

	if d.config.CheckFinalTime && job.TFinalOut != job.TFinal {
		return errors.Wrapf(ErrFinalTimeMismatch,
			"job %s: requested %d, device returned %d", job.ID, job.TFinal, job.TFinalOut)
	}
	return nil
}

func (d *Driver) exchange(job *Job, words codec.WordStream) error {
	lines := d.clock.Lines()

	d.clock.SetPhase("starting job")
	lines.Start = true
	if err := d.clock.Step(); err != nil {
		return err
	}
	lines.Start = false

	if err := d.writer.Write(words); err != nil {
		return err
	}

	d.clock.SetPhase("waiting for transfer start")
	for !d.clock.Status().TransferStarted {
		d.stats.ComputeCycles++
		if err := d.clock.Step(); err != nil {
			return err
		}
	}
	d.watchdog.Acknowledge()

	result, err := d.reader.Read(d.codec.OutputWordCount())
	if err != nil {
		return err
	}
	d.log.V(1).Info("result received", "job", job.ID.String(),
		"value", fmt.Sprintf("%#x", result.Int(d.codec.WordWidth())))

	tFinal, output, err := d.codec.Unpack(result)
	if err != nil {
		return errors.Wrap(err, "failed to unpack result")
	}

	d.clock.SetPhase("draining")
	for i := 0; i < d.config.DrainCycles; i++ {
		if err := d.clock.Step(); err != nil {
			return err
		}
	}
	d.clock.SetPhase("idle")

	job.Output = output
	job.TFinalOut = tFinal
	return nil
}

// RunAll runs jobs in order and stops at the first error.
func (d *Driver) RunAll(jobs []*Job) error {
	for _, job := range jobs {
		if err := d.Run(job); err != nil {
			return err
		}
	}
	return nil
}
