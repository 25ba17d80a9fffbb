package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OpsMetrics records inventory and point-of-sale outcomes.
type OpsMetrics struct {
	salesRecorded   *prometheus.CounterVec
	transfersDone   *prometheus.CounterVec
	stockRejections *prometheus.CounterVec
}

// NewOpsMetrics registers the operational metrics on the provided registerer.
func NewOpsMetrics(reg prometheus.Registerer) *OpsMetrics {
	if reg == nil {
		return &OpsMetrics{}
	}
	salesRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_recorded_total",
		Help: "Sales successfully recorded, by clinic.",
	}, []string{"clinic"})
	transfersDone := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transfers_completed_total",
		Help: "Completed inter-clinic stock transfers, by source clinic.",
	}, []string{"from_clinic"})
	stockRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_rejections_total",
		Help: "Operations rejected because stock would go negative.",
	}, []string{"operation"})
	reg.MustRegister(salesRecorded, transfersDone, stockRejections)
	return &OpsMetrics{
		salesRecorded:   salesRecorded,
		transfersDone:   transfersDone,
		stockRejections: stockRejections,
	}
}

// IncSaleRecorded increments the sale counter for the named clinic.
func (o *OpsMetrics) IncSaleRecorded(clinic string) {
	if o == nil || o.salesRecorded == nil {
		return
	}
	o.salesRecorded.WithLabelValues(normalizeLabel(clinic)).Inc()
}

// IncTransferCompleted increments the transfer counter for the source clinic.
func (o *OpsMetrics) IncTransferCompleted(fromClinic string) {
	if o == nil || o.transfersDone == nil {
		return
	}
	o.transfersDone.WithLabelValues(normalizeLabel(fromClinic)).Inc()
}

// IncStockRejection increments the insufficient-stock counter for the named operation.
func (o *OpsMetrics) IncStockRejection(operation string) {
	if o == nil || o.stockRejections == nil {
		return
	}
	o.stockRejections.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
