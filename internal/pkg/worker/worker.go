package worker

import (
	"sync"
	"time"

	"github.com/jjhbk/Devrang/internal/pkg/push"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/metrics"

	"go.uber.org/zap"
)

// NotifyTask is one queued push message
type NotifyTask struct {
	Message push.Message
	Retry   int
}

// WorkerPool delivers notifications off the request path with bounded retries
type WorkerPool struct {
	TaskQueue  chan NotifyTask
	RetryQueue chan NotifyTask
	Sender     push.PushService
	Metrics    *metrics.MetricsCollector
	WorkerNum  int
	MaxRetry   int
	Backoff    time.Duration

	wg      sync.WaitGroup
	stop    chan struct{}
	stopped sync.Once
}

func NewWorkerPool(sender push.PushService, m *metrics.MetricsCollector, workerNum int, bufferSize int) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize < 2 {
		bufferSize = 2
	}
	return &WorkerPool{
		TaskQueue:  make(chan NotifyTask, bufferSize),
		RetryQueue: make(chan NotifyTask, bufferSize/2),
		Sender:     sender,
		Metrics:    m,
		WorkerNum:  workerNum,
		MaxRetry:   3,
		Backoff:    time.Second,
		stop:       make(chan struct{}),
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	go p.retryWorker()
	logger.Log.Info("worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop stops accepting retries and waits for queued tasks to drain
func (p *WorkerPool) Stop() {
	p.stopped.Do(func() {
		close(p.stop)
		close(p.TaskQueue)
	})
	p.wg.Wait()
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for task := range p.TaskQueue {
		err := p.Sender.Send(task.Message)
		if p.Metrics != nil {
			p.Metrics.RecordNotification(err == nil)
		}
		if err == nil {
			continue
		}

		logger.Log.Warn("notification failed",
			zap.Int("worker", id),
			zap.String("title", task.Message.Title),
			zap.Int("retry", task.Retry),
			zap.Error(err))

		if task.Retry >= p.MaxRetry {
			p.logFailedTask(task, err)
			continue
		}
		task.Retry++
		select {
		case p.RetryQueue <- task:
		default:
			p.logFailedTask(task, err)
		}
	}
}

func (p *WorkerPool) retryWorker() {
	for {
		select {
		case <-p.stop:
			return
		case task := <-p.RetryQueue:
			select {
			case <-p.stop:
				p.logFailedTask(task, nil)
				return
			case <-time.After(time.Duration(task.Retry) * p.Backoff):
			}
			p.enqueue(task)
		}
	}
}

func (p *WorkerPool) logFailedTask(task NotifyTask, err error) {
	logger.Log.Error("notification dropped",
		zap.String("account", task.Message.Account),
		zap.String("title", task.Message.Title),
		zap.Any("ext", task.Message.Ext),
		zap.Error(err))
}

// enqueue never blocks and never panics after Stop
func (p *WorkerPool) enqueue(task NotifyTask) {
	defer func() {
		if recover() != nil {
			p.logFailedTask(task, nil)
		}
	}()
	select {
	case <-p.stop:
		p.logFailedTask(task, nil)
	case p.TaskQueue <- task:
	default:
		p.logFailedTask(task, nil)
	}
}

// Notify queues msg for delivery
func (p *WorkerPool) Notify(msg push.Message) {
	p.enqueue(NotifyTask{Message: msg})
}
