package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/export"
	ediHttp "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/auth"
	exportHandler "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/export"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/files"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/parse"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/payers"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/testutil"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

const enrollment = `ISA*00*          *00*          *ZZ*SPONSOR01      *ZZ*BCBS           *250930*1200*^*00501*000000042*0*T*:
GS*BE*SPONSOR01*BCBS*20250930*1200*7*X*005010X220A1
ST*834*0001*005010X220A1
BGN*00*12456*20250930*1200****4
N1*P5*ACME CORP*FI*123456789
INS*Y*18*021*28*A***FT
REF*0F*MBR001
NM1*IL*1*DOE*JOHN
DMG*D8*19800115*M
SE*8*0001
GE*1*7
IEA*1*000000042`

type server struct {
	handler  http.Handler
	files    *edifile.MockRepository
	payers   *matching.MockRepository
	ingestTx *edifile.MockIngestTx
}

func newServer(t *testing.T, opts ediHttp.Options) *server {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tables := x12.DefaultTables()

	s := &server{
		files:    edifile.NewMockRepository(ctrl),
		payers:   matching.NewMockRepository(ctrl),
		ingestTx: edifile.NewMockIngestTx(ctrl),
	}

	fileSvc := edifile.NewService(s.files)
	matchSvc := matching.NewService(s.payers, tables)
	importSvc := importer.NewService(tables, fileSvc, matchSvc, importer.DefaultOptions(), testutil.NewTestLogger(t))
	exportSvc := export.NewService(fileSvc, tables)

	s.handler = ediHttp.New(opts,
		parse.NewHandler(importSvc),
		files.NewHandler(fileSvc, importSvc, exportSvc, 1<<20),
		payers.NewHandler(matchSvc),
		exportHandler.NewHandler(exportSvc),
	)

	return s
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func multipartBody(t *testing.T, parts map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	for field, content := range parts {
		fw, err := mw.CreateFormFile(field, field+".edi")
		require.NoError(t, err)

		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestParse(t *testing.T) {
	s := newServer(t, ediHttp.Options{})

	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(enrollment)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Charset     string `json:"charset"`
		Transaction struct {
			Type  string `json:"type"`
			Payer struct {
				ID string `json:"id"`
			} `json:"payer"`
		} `json:"transaction"`
		Validation struct {
			IsValid bool `json:"isValid"`
		} `json:"validation"`
		Extraction struct {
			Members []map[string]any `json:"members"`
		} `json:"extraction"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "UTF-8", body.Charset)
	assert.Equal(t, "834", body.Transaction.Type)
	assert.Equal(t, "BCBS", body.Transaction.Payer.ID)
	assert.True(t, body.Validation.IsValid)
	assert.Len(t, body.Extraction.Members, 1)
}

func TestCompare(t *testing.T) {
	s := newServer(t, ediHttp.Options{})

	other := strings.Replace(enrollment, "NM1*IL*1*DOE*JOHN", "NM1*IL*1*DOE*JONATHAN", 1)
	body, contentType := multipartBody(t, map[string]string{"base": enrollment, "other": other})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", body)
	req.Header.Set("Content-Type", contentType)

	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Diff struct {
			Changed []struct {
				MemberID string   `json:"memberId"`
				Fields   []string `json:"fields"`
			} `json:"changed"`
		} `json:"diff"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Diff.Changed, 1)
	assert.Equal(t, "MBR001", resp.Diff.Changed[0].MemberID)
	assert.Contains(t, resp.Diff.Changed[0].Fields, "firstName")
}

func TestCompare_MissingPart(t *testing.T) {
	s := newServer(t, ediHttp.Options{})

	body, contentType := multipartBody(t, map[string]string{"base": enrollment})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", body)
	req.Header.Set("Content-Type", contentType)

	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
}

func TestUpload(t *testing.T) {
	s := newServer(t, ediHttp.Options{})
	fileID := uuid.New()

	s.files.EXPECT().BeginIngest(gomock.Any()).Return(s.ingestTx, nil)
	s.ingestTx.EXPECT().CreateFile(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f *edifile.File) error {
		f.ID = fileID
		return nil
	})
	s.ingestTx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	s.ingestTx.EXPECT().CreateMembers(gomock.Any(), gomock.Len(1)).Return(nil)
	s.ingestTx.EXPECT().Commit().Return(nil)
	s.ingestTx.EXPECT().Rollback().Return(nil)

	body, contentType := multipartBody(t, map[string]string{"file": enrollment})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/", body)
	req.Header.Set("Content-Type", contentType)

	rec := s.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID         uuid.UUID `json:"id"`
		Type       string    `json:"type"`
		PayerID    string    `json:"payerId"`
		Members    int       `json:"members"`
		Validation struct {
			IsValid bool `json:"isValid"`
		} `json:"validation"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, fileID, resp.ID)
	assert.Equal(t, "834", resp.Type)
	assert.Equal(t, "BCBS", resp.PayerID)
	assert.Equal(t, 1, resp.Members)
	assert.True(t, resp.Validation.IsValid)
}

func TestFiles_Lookups(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		setupMock  func(s *server)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "GetInvalidID",
			method:     http.MethodGet,
			path:       "/api/v1/files/nope",
			setupMock:  func(*server) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "GetNotFound",
			method: http.MethodGet,
			path:   "/api/v1/files/" + id.String(),
			setupMock: func(s *server) {
				s.files.EXPECT().GetFile(gomock.Any(), id).Return(nil, edifile.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "InvalidStatus",
			method:     http.MethodPatch,
			path:       "/api/v1/files/" + id.String() + "/status",
			body:       `{"status":"archived"}`,
			setupMock:  func(*server) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "UpdateStatus",
			method: http.MethodPatch,
			path:   "/api/v1/files/" + id.String() + "/status",
			body:   `{"status":"processing"}`,
			setupMock: func(s *server) {
				s.files.EXPECT().UpdateStatus(gomock.Any(), id, edifile.StatusProcessing).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "X12",
			method: http.MethodGet,
			path:   "/api/v1/files/" + id.String() + "/x12",
			setupMock: func(s *server) {
				segments := x12.NewParser(x12.DefaultTables()).Parse(enrollment).Segments
				s.files.EXPECT().GetFile(gomock.Any(), id).Return(&edifile.File{ID: id}, nil)
				s.files.EXPECT().GetTransaction(gomock.Any(), id).
					Return(&edifile.Transaction{ID: id, TransactionType: x12.Format834, RawSegments: segments}, nil)
				s.files.EXPECT().ListMembers(gomock.Any(), id).Return(nil, nil)
				s.files.EXPECT().ListPayments(gomock.Any(), id).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "NM1*IL*1*DOE*JOHN",
		},
		{
			name:   "X12FailedFile",
			method: http.MethodGet,
			path:   "/api/v1/files/" + id.String() + "/x12",
			setupMock: func(s *server) {
				s.files.EXPECT().GetFile(gomock.Any(), id).Return(&edifile.File{ID: id, Status: edifile.StatusFailed}, nil)
				s.files.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, edifile.ErrNotFound)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "UnresolvedErrors",
			method: http.MethodGet,
			path:   "/api/v1/files/" + id.String() + "/errors?unresolved=true",
			setupMock: func(s *server) {
				s.files.EXPECT().ListErrors(gomock.Any(), edifile.ErrorFilter{FileID: &id, Unresolved: true}).
					Return([]*edifile.Error{{Code: "control-number", Severity: edifile.SeverityCritical}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"code":"control-number"`,
		},
		{
			name:   "ResolveMissing",
			method: http.MethodPatch,
			path:   "/api/v1/errors/" + id.String() + "/resolve",
			setupMock: func(s *server) {
				s.files.EXPECT().ResolveError(gomock.Any(), id).Return(edifile.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "List",
			method: http.MethodGet,
			path:   "/api/v1/files/?status=failed&type=834",
			setupMock: func(s *server) {
				s.files.EXPECT().ListFiles(gomock.Any(), edifile.ListFilter{
					Status:   new(edifile.StatusFailed),
					FileType: new("834"),
				}).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, ediHttp.Options{})
			tt.setupMock(s)

			rec := s.do(httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestPayers(t *testing.T) {
	s := newServer(t, ediHttp.Options{})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/payers/suggest", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.payers.EXPECT().FindPayer(gomock.Any(), "HCSC123").Return("BCBS", nil)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/payers/suggest?identifier=HCSC123", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Blue Cross Blue Shield"`)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/payers/", strings.NewReader(`{"identifier":"X1","payerId":"NOPE"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/payers/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var directory []x12.Payer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &directory))
	assert.Len(t, directory, len(x12.DefaultTables().Payers))
}

func TestAuth(t *testing.T) {
	secret := "s3cret"
	s := newServer(t, ediHttp.Options{AuthSecret: secret})

	assert.Equal(t, http.StatusNoContent, s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(enrollment)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.NewToken([]byte(secret), "analyst", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(enrollment))
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, s.do(req).Code)
}

func TestCORS(t *testing.T) {
	s := newServer(t, ediHttp.Options{CORSOrigins: []string{"http://portal.test"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/parse", nil)
	req.Header.Set("Origin", "http://portal.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := s.do(req)
	assert.Equal(t, "http://portal.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestExport_UnknownFormat(t *testing.T) {
	s := newServer(t, ediHttp.Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/export/", strings.NewReader(`{"format":"csv"}`))
	req.Header.Set("Content-Type", "application/json")

	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
}
