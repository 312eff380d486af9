package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/TheSiteshKumar/parlegg/utils"
)

// In-memory sliding-window rate limiting. State is per process; the
// login lockout prefers Redis when it is configured so multiple
// instances agree.

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

func getEnvInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return time.Duration(v) * time.Second
		}
	}
	return def
}

// pruneWindow drops timestamps older than the window and appends now.
func pruneWindow(arr timestamps, now, windowNs int64) timestamps {
	cutoff := now - windowNs
	var kept timestamps
	for _, ts := range arr {
		if ts >= cutoff {
			kept = append(kept, ts)
		}
	}
	return append(kept, now)
}

// retryAfterSeconds is how long until the oldest request in the window
// expires, floored at one second.
func retryAfterSeconds(arr timestamps, now, windowNs int64) int {
	if len(arr) == 0 {
		return int(time.Duration(windowNs).Seconds())
	}
	oldest := arr[0]
	for _, ts := range arr {
		if ts < oldest {
			oldest = ts
		}
	}
	left := oldest + windowNs - now
	if left <= 0 {
		return 1
	}
	return int(left / 1e9)
}

func writeTooManyRequests(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
		Success: false,
		Message: "Too many requests, please try again later",
		Data:    map[string]interface{}{"retry_after_seconds": retryAfter},
	})
}

// clientIPGeneric returns the client IP. X-Forwarded-For and X-Real-IP
// are honored only when the remote address falls inside one of the
// trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IPRateLimiter caps requests per client IP over a sliding window.
// Used on unauthenticated endpoints, mainly login and register.
type IPRateLimiter struct {
	maxReq      int
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	cleanupTick time.Duration
	trustedCIDR []string
}

func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		maxReq:      maxReq,
		window:      window,
		state:       make(map[string]timestamps),
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop()
	return l
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)
		now := nowUnix()
		windowNs := int64(l.window)

		l.mu.Lock()
		arr := pruneWindow(l.state[ip], now, windowNs)
		l.state[ip] = arr
		count := len(arr)
		l.mu.Unlock()

		limit := l.maxReq
		if limit <= 0 {
			limit = getEnvInt("RATE_IP_DEFAULT", 200)
		}
		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > limit {
			writeTooManyRequests(w, retryAfterSeconds(arr, now, windowNs))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		cutoff := now - int64(l.window)
		for k, arr := range l.state {
			var kept timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					kept = append(kept, ts)
				}
			}
			if len(kept) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = kept
			}
		}
		l.mu.Unlock()
	}
}

// UserRateLimiter caps requests per authenticated user. Reads and
// writes carry separate limits, money-moving writes can be tightened
// further via RATE_USER_MONEY, and repeat offenders get escalating
// penalty windows.
type UserRateLimiter struct {
	mu          sync.Mutex
	state       map[string]timestamps // key = u:<id>:<category>:<r|w>
	penalty     map[string]penaltyInfo
	window      time.Duration
	cleanupTick time.Duration
	maxRead     int
	maxWrite    int
}

type penaltyInfo struct {
	Level int
	Until int64 // unix nanos
}

func NewUserRateLimiter(maxReqRead, maxReqWrite int, windowSec int) *UserRateLimiter {
	l := &UserRateLimiter{
		state:       make(map[string]timestamps),
		penalty:     make(map[string]penaltyInfo),
		window:      time.Duration(windowSec) * time.Second,
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
		maxRead:     maxReqRead,
		maxWrite:    maxReqWrite,
	}
	go l.cleanupLoop()
	return l
}

// routeCategory buckets requests so a burst against one family does
// not starve the rest. Money routes move balances and get their own
// bucket.
func routeCategory(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/admins"):
		return "admin"
	case strings.Contains(path, "/funds"),
		strings.Contains(path, "/withdrawals"),
		strings.Contains(path, "/investments"):
		return "money"
	default:
		return "api"
	}
}

func (l *UserRateLimiter) limitFor(category, method string) int {
	write := method != http.MethodGet && method != http.MethodHead
	limit := l.maxRead
	if write {
		limit = l.maxWrite
	}
	if category == "money" && write {
		if v := getEnvInt("RATE_USER_MONEY", 0); v > 0 && v < limit {
			limit = v
		}
	}
	return limit
}

// penaltyDuration escalates per repeat: 1m, 5m, 15m, then 30m.
func penaltyDuration(level int) time.Duration {
	switch level {
	case 1:
		return time.Minute
	case 2:
		return 5 * time.Minute
	case 3:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}

func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetUserID(r)
		if !ok {
			// unauthenticated requests are covered by the IP limiter
			next.ServeHTTP(w, r)
			return
		}
		if role, _ := r.Context().Value(utils.UserRoleKey).(string); role == "admin" {
			next.ServeHTTP(w, r)
			return
		}

		category := routeCategory(r.URL.Path)
		class := "r"
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			class = "w"
		}
		key := fmt.Sprintf("u:%d:%s:%s", uid, category, class)
		limit := l.limitFor(category, r.Method)
		now := nowUnix()
		windowNs := int64(l.window)

		l.mu.Lock()
		if pi := l.penalty[key]; pi.Until > now {
			l.mu.Unlock()
			writeTooManyRequests(w, int(time.Duration(pi.Until-now).Seconds()))
			return
		}

		arr := pruneWindow(l.state[key], now, windowNs)
		l.state[key] = arr
		count := len(arr)

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > limit {
			level := l.penalty[key].Level + 1
			duration := penaltyDuration(level)
			l.penalty[key] = penaltyInfo{Level: level, Until: now + int64(duration)}
			l.mu.Unlock()
			writeTooManyRequests(w, int(duration.Seconds()))
			return
		}
		l.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (l *UserRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		cutoff := now - int64(l.window)
		for k, arr := range l.state {
			var kept timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					kept = append(kept, ts)
				}
			}
			if len(kept) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = kept
			}
		}
		for k, p := range l.penalty {
			if p.Until < now {
				delete(l.penalty, k)
			}
		}
		l.mu.Unlock()
	}
}

// CronLimiter guards the scheduler endpoint. Whitelisted IPs bypass
// the limit entirely; everyone else shares a per-IP sliding window.
type CronLimiter struct {
	maxReq    int
	window    time.Duration
	whitelist map[string]bool
	mu        sync.Mutex
	state     map[string]timestamps
}

func NewCronLimiter(maxReq int, window time.Duration, whitelist []string) *CronLimiter {
	wl := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		if ip = strings.TrimSpace(ip); ip != "" {
			wl[ip] = true
		}
	}
	return &CronLimiter{
		maxReq:    maxReq,
		window:    window,
		whitelist: wl,
		state:     make(map[string]timestamps),
	}
}

func (l *CronLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, nil)
		if l.whitelist[ip] {
			next.ServeHTTP(w, r)
			return
		}
		now := nowUnix()
		windowNs := int64(l.window)

		l.mu.Lock()
		arr := pruneWindow(l.state[ip], now, windowNs)
		l.state[ip] = arr
		count := len(arr)
		l.mu.Unlock()

		if count > l.maxReq {
			writeTooManyRequests(w, retryAfterSeconds(arr, now, windowNs))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Login lockout. Redis keys keep the lock consistent across instances;
// the in-memory maps cover deployments without Redis.
var (
	loginMu   sync.Mutex
	failedMap = make(map[string]int)   // user key -> failure count
	lockMap   = make(map[string]int64) // user key -> lock until, unix nanos
)

// lockoutDuration escalates per failure: 1m, 5m, 15m, then 30m.
func lockoutDuration(failures int) time.Duration {
	switch failures {
	case 1:
		return time.Minute
	case 2:
		return 5 * time.Minute
	case 3:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}

func IsAccountLocked(userID uint) (bool, time.Duration) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		ttl, err := utils.RedisClient.TTL(ctx, fmt.Sprintf("login:lock:u:%d", userID)).Result()
		if err == nil && ttl > 0 {
			return true, ttl
		}
		return false, 0
	}

	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	until := lockMap[key]
	if until == 0 {
		return false, 0
	}
	now := nowUnix()
	if until > now {
		return true, time.Duration(until - now)
	}
	delete(lockMap, key)
	failedMap[key] = 0
	return false, 0
}

func RecordFailedLogin(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		failKey := fmt.Sprintf("login:fail:u:%d", userID)
		failures, err := utils.RedisClient.Incr(ctx, failKey).Result()
		if err == nil {
			_, _ = utils.RedisClient.Expire(ctx, failKey, 30*time.Minute).Result()
			lockKey := fmt.Sprintf("login:lock:u:%d", userID)
			_ = utils.RedisClient.Set(ctx, lockKey, "1", lockoutDuration(int(failures))).Err()
			return
		}
		// fall through to in-memory when Redis errors
	}

	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	failedMap[key]++
	lockMap[key] = nowUnix() + int64(lockoutDuration(failedMap[key]))
}

func ResetFailedLogin(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		_, _ = utils.RedisClient.Del(ctx,
			fmt.Sprintf("login:fail:u:%d", userID),
			fmt.Sprintf("login:lock:u:%d", userID)).Result()
		return
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	delete(lockMap, key)
	failedMap[key] = 0
}
