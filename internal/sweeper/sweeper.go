package sweeper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rehiko/picstash/database/repo/collections"
	"github.com/rehiko/picstash/utils"
)

// Sweeper 孤儿图片清理器
// 周期性（或按需）删除不再被任何合集引用的图片行
type Sweeper struct {
	repo      *collections.Repository
	batchSize int
	interval  time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	started bool
}

// New 创建清理器，interval 为 0 时只支持 RunOnce，不启动后台循环
func New(repo *collections.Repository, batchSize int, interval time.Duration) *Sweeper {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Sweeper{
		repo:      repo,
		batchSize: batchSize,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// RunOnce 执行一轮清理，返回本轮删除的图片数量
// 每轮最多处理一个批次；没有孤儿时返回 0 且不产生删除语句
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	deleted, err := s.repo.SweepOrphans(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("[sweeper] removed %d orphaned images in %v", deleted, time.Since(start))
	} else {
		utils.LogIfDevf("[sweeper] no orphaned images found")
	}
	return deleted, nil
}

// Start 启动后台清理循环，立即执行首轮，之后按间隔执行
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.interval <= 0 {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.loop()
	log.Printf("[sweeper] background sweep started, interval=%v batch=%d", s.interval, s.batchSize)
}

// Stop 停止后台清理循环并等待当前轮次结束
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	log.Printf("[sweeper] background sweep stopped")
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	if _, err := s.RunOnce(context.Background()); err != nil {
		log.Printf("[sweeper] sweep failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(context.Background()); err != nil {
				log.Printf("[sweeper] sweep failed: %v", err)
			}
		case <-s.stopCh:
			return
		}
	}
}
