package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

const MINIO_SVC = "minio_svc"

// TranscriptArchive keeps a copy of every finalized transcript outside the
// database. Failures never block the request that triggered them.
type TranscriptArchive interface {
	ArchiveTranscript(ctx context.Context, session *model.PracticeSession) error
	RemoveTranscript(ctx context.Context, userID, sessionID string) error
	RemoveUserTranscripts(ctx context.Context, userID string) error
}

type archivedTranscript struct {
	SessionID       string                 `json:"session_id"`
	UserID          string                 `json:"user_id"`
	Mode            *string                `json:"mode,omitempty"`
	Scenario        *string                `json:"scenario,omitempty"`
	StartedAt       time.Time              `json:"started_at"`
	EndedAt         *time.Time             `json:"ended_at,omitempty"`
	DurationSeconds int                    `json:"duration_seconds"`
	Transcript      []model.TranscriptTurn `json:"transcript"`
	ArchivedAt      time.Time              `json:"archived_at"`
}

// TranscriptObjectName is the object key for one session's transcript.
func TranscriptObjectName(userID, sessionID string) string {
	return fmt.Sprintf("transcripts/%s/%s.json", userID, sessionID)
}

func transcriptPrefix(userID string) string {
	return fmt.Sprintf("transcripts/%s/", userID)
}

type MinIOService struct {
	appContext.DefaultService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *appContext.Context) error {
	svc.endpoint = getEnv("MINIO_ENDPOINT", "")
	svc.accessKey = getEnv("MINIO_ACCESS_KEY", "admin")
	svc.secretKey = getEnv("MINIO_SECRET_KEY", "password123")
	svc.useSSL = getEnv("MINIO_USE_SSL", "false") == "true"
	svc.bucketName = getEnv("MINIO_BUCKET_NAME", "salita-transcripts")

	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	if svc.endpoint == "" {
		log.Info("MINIO_ENDPOINT not set, transcript archive disabled")
		return nil
	}

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}
	svc.client = client

	if err := svc.ensureBucket(context.Background()); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.WithFields(log.Fields{
		"endpoint": svc.endpoint,
		"bucket":   svc.bucketName,
	}).Info("Transcript archive ready")
	return nil
}

// Enabled reports whether an object store is configured.
func (svc *MinIOService) Enabled() bool {
	return svc.client != nil
}

func (svc *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.WithField("bucket", svc.bucketName).Info("Created MinIO bucket")
	}

	return nil
}

func (svc *MinIOService) ArchiveTranscript(ctx context.Context, session *model.PracticeSession) error {
	if !svc.Enabled() {
		return nil
	}

	payload, err := sonic.Marshal(archivedTranscript{
		SessionID:       session.ID,
		UserID:          session.UserID,
		Mode:            session.Mode,
		Scenario:        session.Scenario,
		StartedAt:       session.StartedAt,
		EndedAt:         session.EndedAt,
		DurationSeconds: session.DurationSeconds,
		Transcript:      session.Transcript,
		ArchivedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	objectName := TranscriptObjectName(session.UserID, session.ID)
	_, err = svc.client.PutObject(ctx, svc.bucketName, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload transcript to MinIO: %v", err)
	}
	return nil
}

func (svc *MinIOService) RemoveTranscript(ctx context.Context, userID, sessionID string) error {
	if !svc.Enabled() {
		return nil
	}

	err := svc.client.RemoveObject(ctx, svc.bucketName, TranscriptObjectName(userID, sessionID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete transcript from MinIO: %v", err)
	}
	return nil
}

func (svc *MinIOService) RemoveUserTranscripts(ctx context.Context, userID string) error {
	if !svc.Enabled() {
		return nil
	}

	objectCh := svc.client.ListObjects(ctx, svc.bucketName, minio.ListObjectsOptions{
		Prefix:    transcriptPrefix(userID),
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return fmt.Errorf("failed to list transcripts: %v", object.Err)
		}
		if err := svc.client.RemoveObject(ctx, svc.bucketName, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete transcript %s: %v", object.Key, err)
		}
	}
	return nil
}
