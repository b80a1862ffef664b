package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

const (
	shortOpTimeout  = 5 * time.Second
	queryTimeout    = 30 * time.Second
	transferTimeout = 120 * time.Second
)

// MongoService translates API operations into driver calls against one
// shared client. It holds no other mutable state; concurrency is the
// driver's problem.
type MongoService struct {
	client          *mongo.Client
	downloadLimiter *rate.Limiter
}

var AppMongoService *MongoService

func NewMongoService(client *mongo.Client) *MongoService {
	return &MongoService{
		client:          client,
		downloadLimiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

func opContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// filterNames keeps the names whose lowercase form contains the lowercase
// search substring. An empty search keeps everything.
func filterNames(names []string, search string) []string {
	if search == "" {
		return names
	}
	needle := strings.ToLower(search)
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), needle) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func sortNames(names []string, direction string) {
	sort.Strings(names)
	if direction == "desc" {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}
}
