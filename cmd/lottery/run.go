package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/viper"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/yaml"

	lotteryv1alpha1 "github.com/llm-d/parking-lottery/api/v1alpha1"
	"github.com/llm-d/parking-lottery/internal/config"
	"github.com/llm-d/parking-lottery/internal/lottery"
	"github.com/llm-d/parking-lottery/internal/metrics"
	"github.com/llm-d/parking-lottery/pkg/random"
)

const (
	flagConfig      = "config"
	flagLottery     = "lottery"
	flagSeed        = "seed"
	flagMaxDraws    = "max-draws"
	flagBalance     = "balance-by-group"
	flagSurplus     = "allow-surplus-extended"
	flagMetricsOut  = "metrics-out"
	flagDevelopment = "development"
	flagVerbosity   = "v"
)

// now is replaced in tests.
var now = func() metav1.Time { return metav1.NewTime(time.Now().UTC()) }

// run executes one session and writes the ParkingLottery with its status to
// out. A configuration error is written to the status too, then returned.
func run(ctx context.Context, v *viper.Viper, out io.Writer) error {
	logger := ctrl.LoggerFrom(ctx)

	pl, err := loadLottery(v)
	if err != nil {
		return err
	}
	configPath := v.GetString(flagConfig)
	if configPath == "" {
		return fmt.Errorf("--%s is required", flagConfig)
	}
	cm := &corev1.ConfigMap{}
	if err := readManifest(configPath, cm); err != nil {
		return err
	}
	if pl.Spec.ConfigMapRef.Name != "" && cm.Name != "" && pl.Spec.ConfigMapRef.Name != cm.Name {
		logger.Info("ConfigMap name differs from the lottery's configMapRef",
			"configMapRef", pl.Spec.ConfigMapRef.Name, "configMap", cm.Name)
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheusRecorder(registry)
	if err != nil {
		return err
	}

	summary, sessionErr := runSession(ctx, pl, cm, recorder)
	pl.Status = buildStatus(summary, sessionErr, now())

	b, err := yaml.Marshal(pl)
	if err != nil {
		return fmt.Errorf("failed to encode lottery: %w", err)
	}
	if _, err := out.Write(b); err != nil {
		return err
	}
	if path := v.GetString(flagMetricsOut); path != "" {
		if err := writeMetrics(registry, path); err != nil {
			return err
		}
	}
	return sessionErr
}

func runSession(ctx context.Context, pl *lotteryv1alpha1.ParkingLottery, cm *corev1.ConfigMap, recorder metrics.Recorder) (*lottery.SessionSummary, error) {
	cfg, err := config.FromConfigMap(cm)
	if err != nil {
		return nil, err
	}
	garage, apartments, classifier, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	o, err := lottery.NewOrchestrator(lottery.Config{
		Source:               random.New(pl.Spec.Seed),
		Classifier:           classifier,
		Recorder:             recorder,
		BalanceSimpleByGroup: pl.Spec.BalanceSimpleByGroup,
		AllowSurplusExtended: ptr.Deref(pl.Spec.AllowSurplusExtended, true),
	})
	if err != nil {
		return nil, err
	}
	ctrl.LoggerFrom(ctx).Info("Starting lottery session", "lottery", pl.Name, "seed", pl.Spec.Seed,
		"apartments", len(apartments), "spots", garage.Capacity())
	return o.ExecuteMultipleSortings(ctx, apartments, garage, int(pl.Spec.MaxDraws))
}

// loadLottery reads the ParkingLottery manifest if one is given and lets
// explicitly set flags or environment variables override its spec.
func loadLottery(v *viper.Viper) (*lotteryv1alpha1.ParkingLottery, error) {
	pl := &lotteryv1alpha1.ParkingLottery{
		TypeMeta: metav1.TypeMeta{
			APIVersion: lotteryv1alpha1.GroupVersion.String(),
			Kind:       "ParkingLottery",
		},
		ObjectMeta: metav1.ObjectMeta{Name: "lottery"},
		Spec: lotteryv1alpha1.ParkingLotterySpec{
			ConfigMapRef:         lotteryv1alpha1.ConfigMapReference{Name: config.DefaultLotteryConfigMapName},
			Seed:                 v.GetInt64(flagSeed),
			MaxDraws:             int32(v.GetInt(flagMaxDraws)),
			BalanceSimpleByGroup: v.GetBool(flagBalance),
			AllowSurplusExtended: ptr.To(v.GetBool(flagSurplus)),
		},
	}
	if path := v.GetString(flagLottery); path != "" {
		if err := readManifest(path, pl); err != nil {
			return nil, err
		}
		overrideSpec(v, &pl.Spec)
	}
	if pl.Spec.MaxDraws < 0 {
		return nil, fmt.Errorf("maxDraws must be >= 0, got %d", pl.Spec.MaxDraws)
	}
	return pl, nil
}

// overrideSpec applies flags and environment variables that were set
// explicitly on top of a manifest's spec.
func overrideSpec(v *viper.Viper, spec *lotteryv1alpha1.ParkingLotterySpec) {
	if v.IsSet(flagSeed) {
		spec.Seed = v.GetInt64(flagSeed)
	}
	if v.IsSet(flagMaxDraws) {
		spec.MaxDraws = int32(v.GetInt(flagMaxDraws))
	}
	if v.IsSet(flagBalance) {
		spec.BalanceSimpleByGroup = v.GetBool(flagBalance)
	}
	if v.IsSet(flagSurplus) {
		spec.AllowSurplusExtended = ptr.To(v.GetBool(flagSurplus))
	}
}

func readManifest(path string, into any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(b, into); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func writeMetrics(gatherer prometheus.Gatherer, path string) (err error) {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
