package quality

import (
	"fmt"
	"runtime"

	"github.com/notargets/MeshQuality/element"
	"github.com/notargets/MeshQuality/partitions"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Evaluator runs the same pass as Evaluate, split over element partitions that
// are processed concurrently. The zero value is usable.
type Evaluator struct {
	// Workers bounds the number of partitions evaluated at once; <= 0 uses
	// GOMAXPROCS
	Workers int
	// PartitionSize is the target number of elements per partition; <= 0
	// spreads the elements evenly over Workers
	PartitionSize int
	Strategy      partitions.PartitionStrategy
	Logger        *zap.Logger
}

func (ev *Evaluator) workers() int {
	if ev.Workers > 0 {
		return ev.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (ev *Evaluator) partitionSize(numElements, workers int) int {
	if ev.PartitionSize > 0 {
		return ev.PartitionSize
	}
	size := (numElements + workers - 1) / workers
	if size < 1 {
		size = 1
	}
	return size
}

func (ev *Evaluator) logger() *zap.Logger {
	if ev.Logger != nil {
		return ev.Logger
	}
	return zap.NewNop()
}

// Evaluate computes every element's metrics, the means and the bands. Each
// partition writes only its own slots of the result and its own partial sums;
// the partial sums are merged in partition order once all workers are done.
func (ev *Evaluator) Evaluate(elements []element.Element, metric Metric) (*Result, error) {
	log := ev.logger()
	if err := validateAll(elements); err != nil {
		log.Error("Rejecting element list", zap.Error(err))
		return nil, err
	}

	res := &Result{
		Qualities: make([]Quality, len(elements)),
		Metric:    metric,
	}
	if len(elements) == 0 {
		res.finish(sums{})
		log.Warn("Zero mesh inputs found")
		return res, nil
	}

	workers := ev.workers()
	pb := partitions.PartitionBuilder{
		NumElements:         len(elements),
		TargetPartitionSize: ev.partitionSize(len(elements), workers),
		Strategy:            ev.Strategy,
	}
	layout, err := pb.BuildPartitions()
	if err != nil {
		return nil, fmt.Errorf("partitioning %d elements: %w", len(elements), err)
	}
	stats := layout.PartitionStatistics()
	log.Debug("Partitioned elements",
		zap.Int("elements", len(elements)),
		zap.Int("partitions", stats.NumPartitions),
		zap.Int("workers", workers),
		zap.Stringer("strategy", ev.Strategy),
		zap.Int("kpart_max", layout.KpartMax),
		zap.Int("min_elements", stats.MinElements),
		zap.Float64("imbalance", stats.Imbalance))

	partial := make([]sums, layout.NumPartitions)
	var g errgroup.Group
	g.SetLimit(workers)
	for _, part := range layout.Partitions {
		g.Go(func() error {
			var acc sums
			for _, k := range part.Elements {
				q := EvaluateElement(elements[k])
				res.Qualities[k] = q
				acc.add(q)
			}
			partial[part.ID] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total sums
	for _, p := range partial {
		total.merge(p)
	}
	res.finish(total)

	logDiagnostics(log, res.AllDiagnostics())
	log.Info("Evaluated mesh quality",
		zap.Int("elements", res.Count()),
		zap.Float64("mean_aspect_ratio", res.Mean.AspectRatio),
		zap.Float64("mean_skewness", res.Mean.Skewness),
		zap.Float64("mean_jacobian_ratio", res.Mean.JacobianRatio))
	return res, nil
}

// logDiagnostics reports each diagnostic at the log level matching its severity
func logDiagnostics(log *zap.Logger, ds Diagnostics) {
	for _, d := range ds {
		fields := []zap.Field{
			zap.Int("element", d.ElementID),
			zap.Stringer("kind", d.Kind),
		}
		if d.Metric.Valid() {
			fields = append(fields, zap.Stringer("metric", d.Metric))
		}
		switch d.Severity {
		case Error:
			log.Error(d.Message, fields...)
		case Warning:
			log.Warn(d.Message, fields...)
		default:
			log.Debug(d.Message, fields...)
		}
	}
}
