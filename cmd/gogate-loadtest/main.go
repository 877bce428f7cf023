// Command gogate-loadtest measures sign-in and gate-decision throughput
// against a local engine. Without -redis-addr it runs on miniredis, so
// the numbers isolate engine overhead from network latency.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/password"
)

func main() {
	var (
		principals  = flag.Int("principals", 1000, "number of principals to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		signIns     = flag.Int("signins", 5000, "sign-in operations")
		gateOps     = flag.Int("gate-ops", 200000, "gate decisions")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *principals <= 0 || *concurrency <= 0 || *signIns <= 0 || *gateOps <= 0 {
		fmt.Fprintln(os.Stderr, "principals, concurrency, signins, and gate-ops must be > 0")
		os.Exit(2)
	}

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	var client redis.UniversalClient
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	fmt.Printf("seeding %d principals...\n", *principals)
	startSeed := time.Now()

	// One bcrypt hash shared across the seed set; hashing dominates
	// seeding time otherwise and teaches nothing about the gate.
	hash, err := password.Hash("load-test-secret")
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}

	store := make(map[string]*goGate.Principal, *principals)
	emails := make([]string, *principals)
	for i := 0; i < *principals; i++ {
		email := fmt.Sprintf("p%d@example.com", i)
		emails[i] = email
		store[email] = &goGate.Principal{
			ID:         fmt.Sprintf("p-%d", i),
			Email:      email,
			SecretHash: hash,
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	cfg := goGate.DefaultConfig()
	cfg.Session.SigningMethod = "hs256"
	cfg.Session.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	// Successful sign-ins reset the budget, but at high concurrency the
	// default window is still too tight for a load test.
	cfg.Security.MaxSignInAttempts = 1 << 30

	engine, err := goGate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithPrincipalProvider(goGate.PrincipalProviderFunc(func(_ context.Context, email string) (*goGate.Principal, error) {
			p, ok := store[email]
			if !ok {
				return nil, goGate.ErrPrincipalNotFound
			}
			return p, nil
		})).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	tokens := make([]string, len(emails))
	signInStats := runSignInPhase(engine, emails, tokens, *signIns, *concurrency)
	gateStats := runGatePhase(engine, tokens, *gateOps, *concurrency)

	fmt.Println("---- results ----")
	printStats("signin", signInStats)
	printStats("gate", gateStats)
}

func runSignInPhase(engine *goGate.Engine, emails []string, tokens []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	ctx := context.Background()

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(emails))
				t0 := time.Now()
				result, err := engine.SignInWithPassword(ctx, emails[idx], "load-test-secret")
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				} else {
					tokens[idx] = result.Token
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runGatePhase(engine *goGate.Engine, tokens []string, ops, concurrency int) phaseStats {
	paths := []string{"/dashboard", "/settings", "/_next/static/chunk.js", "/api/health", "/reports/q3"}

	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				token := tokens[r.Intn(len(tokens))]
				path := paths[r.Intn(len(paths))]
				t0 := time.Now()
				d := engine.GateRequest(path, token)
				elapsed := time.Since(t0)
				// Every seeded token is valid, so any redirect for a
				// request that carried one is a failure.
				if !d.Allow && token != "" {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, elapsed)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
