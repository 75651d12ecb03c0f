package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/pools"
	"github.com/adify/rewards/internal/gateways/database/models"
)

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type TransactionLister interface {
	PoolTransactions(ctx context.Context, poolID int64) ([]*models.Transaction, error)
}

// Reporter writes a JSON settlement report for every completed pool.
type Reporter struct {
	client  ObjectPutter
	ledger  TransactionLister
	bucket  string
	prefix  string
	timeout time.Duration
}

type Entry struct {
	UserID         string         `json:"userId"`
	TransactionID  int64          `json:"transactionId"`
	CoinsAmount    string         `json:"coinsAmount"`
	CashAmount     string         `json:"cashAmount"`
	LocalAmount    string         `json:"localAmount"`
	LocalCurrency  string         `json:"localCurrency"`
	IdempotencyKey string         `json:"idempotencyKey"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type Report struct {
	Pool        *models.RevenuePool       `json:"pool"`
	Result      *pools.DistributionResult `json:"result"`
	Entries     []Entry                   `json:"entries"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}

// NewS3Reporter returns nil when reports are not configured.
func NewS3Reporter(ctx context.Context, cfg config.ReportsConfig, ledger TransactionLister) (*Reporter, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewReporter(client, ledger, cfg.Bucket, cfg.Prefix), nil
}

func NewReporter(client ObjectPutter, ledger TransactionLister, bucket, prefix string) *Reporter {
	if prefix == "" {
		prefix = config.DefaultReportPrefix
	}
	return &Reporter{
		client:  client,
		ledger:  ledger,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		timeout: config.ReportUploadTimeout,
	}
}

// ObjectKey is where the report for a pool is stored.
func (r *Reporter) ObjectKey(pool *models.RevenuePool) string {
	return path.Join(r.prefix, pool.Month, fmt.Sprintf("%s-%d.json", strings.ToLower(pool.CountryCode), pool.ID))
}

// Upload builds the report from the ledger and stores it.
func (r *Reporter) Upload(ctx context.Context, pool *models.RevenuePool, result *pools.DistributionResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	txs, err := r.ledger.PoolTransactions(ctx, pool.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load pool transactions: %w", err)
	}

	report := Report{
		Pool:        pool,
		Result:      result,
		Entries:     make([]Entry, 0, len(txs)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, tx := range txs {
		report.Entries = append(report.Entries, Entry{
			UserID:         tx.UserID,
			TransactionID:  tx.ID,
			CoinsAmount:    tx.CoinsAmount.String(),
			CashAmount:     tx.CashAmount.String(),
			LocalAmount:    tx.LocalAmount.String(),
			LocalCurrency:  tx.LocalCurrency,
			IdempotencyKey: tx.IdempotencyKey,
			Metadata:       tx.Metadata,
			CreatedAt:      tx.CreatedAt,
		})
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := r.ObjectKey(pool)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}
	return key, nil
}

func (r *Reporter) PoolsBuilt(*pools.BuildResult) {}

// PoolDistributed uploads a report once a pool is fully settled.
func (r *Reporter) PoolDistributed(pool *models.RevenuePool, result *pools.DistributionResult) {
	if r == nil || !result.Completed {
		return
	}

	key, err := r.Upload(context.Background(), pool, result)
	if err != nil {
		slog.Error("Failed to upload settlement report",
			slog.String("type", "sys"),
			slog.Int64("pool_id", pool.ID),
			slog.Any("error", err))
		return
	}
	slog.Info("Settlement report uploaded",
		slog.String("type", "sys"),
		slog.Int64("pool_id", pool.ID),
		slog.String("key", key))
}
