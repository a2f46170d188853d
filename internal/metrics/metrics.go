package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gamemaster"

// Collector exposes question outcomes as Prometheus metrics.
type Collector struct {
	questions *prometheus.CounterVec
	points    *prometheus.CounterVec
	round     prometheus.Gauge
	players   prometheus.Gauge
}

// NewCollector registers the game metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Questions asked, by kind and result.",
		}, []string{"kind", "result"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Points awarded, by question kind.",
		}, []string{"kind"}),
		round: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "round",
			Help:      "Current round; 0 during warm-up.",
		}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players",
			Help:      "Registered players.",
		}),
	}
	reg.MustRegister(c.questions, c.points, c.round, c.players)
	return c
}

// ObserveQuestion counts one graded question.
func (c *Collector) ObserveQuestion(kind, result string, points int) {
	c.questions.WithLabelValues(kind, result).Inc()
	if points > 0 {
		c.points.WithLabelValues(kind).Add(float64(points))
	}
}

func (c *Collector) SetRound(round int)     { c.round.Set(float64(round)) }
func (c *Collector) SetPlayers(players int) { c.players.Set(float64(players)) }
