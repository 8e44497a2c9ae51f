package zoootel

const (
	scopeName = "github.com/rezairanshahi021/zoo-challenge"
)

var (
	latencyHistogramBuckets = []float64{
		.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
	}
)
