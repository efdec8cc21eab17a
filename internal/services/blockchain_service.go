// internal/services/blockchain_service.go
package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/story-registrar/internal/config"
	"github.com/javajoker/story-registrar/internal/models"
	"github.com/javajoker/story-registrar/internal/utils"
)

// Registrar submits registrations to the chain. Implementations own signing,
// submission and confirmation.
type Registrar interface {
	MintAndRegisterIP(ctx context.Context, params MintAndRegisterParams) (*RegistrationReceipt, error)
	RegisterExistingNFT(ctx context.Context, params RegisterExistingParams) (*RegistrationReceipt, error)
	CreateCollection(ctx context.Context, params CreateCollectionParams) (*CollectionReceipt, error)
}

type TxOptions struct {
	WaitForTransaction bool `json:"waitForTransaction"`
}

type LicenseTermsData struct {
	Terms models.LicenseTerms `json:"terms"`
}

type MintAndRegisterParams struct {
	SPGNFTContract   models.Address         `json:"spgNftContract"`
	LicenseTermsData []LicenseTermsData     `json:"licenseTermsData"`
	IPMetadata       models.MetadataPackage `json:"ipMetadata"`
	Recipient        *models.Address        `json:"recipient,omitempty"`
	TxOptions        TxOptions              `json:"txOptions"`
}

type RegisterExistingParams struct {
	NFTContract      models.Address         `json:"nftContract"`
	TokenID          string                 `json:"tokenId"`
	LicenseTermsData []LicenseTermsData     `json:"licenseTermsData"`
	IPMetadata       models.MetadataPackage `json:"ipMetadata"`
	Deadline         int64                  `json:"deadline"` // unix milliseconds
	TxOptions        TxOptions              `json:"txOptions"`
}

type CreateCollectionParams struct {
	Name             string         `json:"name"`
	Symbol           string         `json:"symbol"`
	IsPublicMinting  bool           `json:"isPublicMinting"`
	MintOpen         bool           `json:"mintOpen"`
	MintFeeRecipient models.Address `json:"mintFeeRecipient"`
	ContractURI      string         `json:"contractURI"`
	TxOptions        TxOptions      `json:"txOptions"`
}

type RegistrationReceipt struct {
	TxHash          string           `json:"txHash"`
	IPID            string           `json:"ipId"`
	TokenID         models.TokenID   `json:"tokenId"`
	LicenseTermsIDs []models.TokenID `json:"licenseTermsIds"`
}

type CollectionReceipt struct {
	SPGNFTContract string `json:"spgNftContract"`
	TxHash         string `json:"txHash"`
}

const (
	opMintAndRegister  = "mintAndRegisterIpAssetWithPilTerms"
	opRegisterExisting = "registerIpAndAttachPilTerms"
	opCreateCollection = "createNFTCollection"
)

// NewRegistrar picks the gateway when one is configured and the in-process
// simulation otherwise.
func NewRegistrar(cfg *config.Config) Registrar {
	if cfg.Gateway.URL != "" {
		return NewGatewayRegistrar(cfg.Gateway, cfg.Story.ChainID)
	}
	logrus.WithField("chain_id", cfg.Story.ChainID).Warn("No STORY_GATEWAY_URL configured, using simulated registrar")
	return NewSimulatedRegistrar(cfg.Story.ChainID)
}

// GatewayRegistrar talks JSON over HTTP to a signing gateway that wraps the Story SDK.
type GatewayRegistrar struct {
	baseURL    string
	secret     string
	chainID    int64
	httpClient *http.Client
}

// GatewayError is a non-2xx answer from the gateway. Error returns the gateway's
// own message.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return e.Message
}

func NewGatewayRegistrar(cfg config.GatewayConfig, chainID int64) *GatewayRegistrar {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 75 * time.Second
	}
	return &GatewayRegistrar{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		secret:     cfg.Secret,
		chainID:    chainID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *GatewayRegistrar) MintAndRegisterIP(ctx context.Context, params MintAndRegisterParams) (*RegistrationReceipt, error) {
	var receipt RegistrationReceipt
	if err := g.post(ctx, opMintAndRegister, "/v1/ip/mint-and-register", params, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (g *GatewayRegistrar) RegisterExistingNFT(ctx context.Context, params RegisterExistingParams) (*RegistrationReceipt, error) {
	var receipt RegistrationReceipt
	if err := g.post(ctx, opRegisterExisting, "/v1/ip/register-existing", params, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (g *GatewayRegistrar) CreateCollection(ctx context.Context, params CreateCollectionParams) (*CollectionReceipt, error) {
	var receipt CollectionReceipt
	if err := g.post(ctx, opCreateCollection, "/v1/nft/collections", params, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (g *GatewayRegistrar) post(ctx context.Context, op, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	token, err := utils.GenerateGatewayToken(g.secret, g.chainID, op, time.Minute)
	if err != nil {
		return fmt.Errorf("failed to sign gateway token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	logrus.WithFields(logrus.Fields{
		"op":       op,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Milliseconds(),
	}).Debug("Gateway call completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &GatewayError{StatusCode: resp.StatusCode, Message: gatewayErrorMessage(resp.StatusCode, respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func gatewayErrorMessage(status int, body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

// SimulatedRegistrar stands in for the chain during development. Identifiers are
// derived deterministically from the inputs and a running nonce; identical terms
// share a terms id the way the on-chain terms registry dedupes them.
type SimulatedRegistrar struct {
	chainID int64

	mu        sync.Mutex
	nonce     uint64
	nextToken map[models.Address]uint64
	termsIDs  map[models.LicenseTerms]string
}

func NewSimulatedRegistrar(chainID int64) *SimulatedRegistrar {
	return &SimulatedRegistrar{
		chainID:   chainID,
		nextToken: make(map[models.Address]uint64),
		termsIDs:  make(map[models.LicenseTerms]string),
	}
}

func (s *SimulatedRegistrar) MintAndRegisterIP(ctx context.Context, params MintAndRegisterParams) (*RegistrationReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := params.SPGNFTContract.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contract := models.Address(strings.ToLower(string(params.SPGNFTContract)))
	s.nextToken[contract]++
	tokenID := strconv.FormatUint(s.nextToken[contract], 10)

	receipt := &RegistrationReceipt{
		TxHash:          s.txHash(opMintAndRegister, params),
		IPID:            s.ipID(contract, tokenID).String(),
		TokenID:         models.TokenID(tokenID),
		LicenseTermsIDs: s.registerTerms(params.LicenseTermsData),
	}

	logrus.WithFields(logrus.Fields{
		"ip_id":    receipt.IPID,
		"token_id": tokenID,
		"tx_hash":  receipt.TxHash,
	}).Info("Simulated IP minted and registered")

	return receipt, nil
}

func (s *SimulatedRegistrar) RegisterExistingNFT(ctx context.Context, params RegisterExistingParams) (*RegistrationReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := params.NFTContract.Validate(); err != nil {
		return nil, err
	}
	if params.Deadline > 0 && time.Now().UnixMilli() > params.Deadline {
		return nil, fmt.Errorf("signature deadline %d has passed", params.Deadline)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contract := models.Address(strings.ToLower(string(params.NFTContract)))
	receipt := &RegistrationReceipt{
		TxHash:          s.txHash(opRegisterExisting, params),
		IPID:            s.ipID(contract, params.TokenID).String(),
		TokenID:         models.TokenID(params.TokenID),
		LicenseTermsIDs: s.registerTerms(params.LicenseTermsData),
	}

	logrus.WithFields(logrus.Fields{
		"ip_id":    receipt.IPID,
		"token_id": params.TokenID,
		"tx_hash":  receipt.TxHash,
	}).Info("Simulated IP registered for existing NFT")

	return receipt, nil
}

func (s *SimulatedRegistrar) CreateCollection(ctx context.Context, params CreateCollectionParams) (*CollectionReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txHash := s.txHash(opCreateCollection, params)
	digest := utils.Keccak256([]byte("collection"), s.chainIDBytes(), []byte(params.Name), []byte(params.Symbol), s.nonceBytes())
	receipt := &CollectionReceipt{
		SPGNFTContract: models.AddressFromBytes(digest).String(),
		TxHash:         txHash,
	}

	logrus.WithFields(logrus.Fields{
		"spg_nft_contract": receipt.SPGNFTContract,
		"tx_hash":          receipt.TxHash,
	}).Info("Simulated NFT collection created")

	return receipt, nil
}

// txHash must be called with s.mu held.
func (s *SimulatedRegistrar) txHash(op string, payload interface{}) string {
	s.nonce++
	encoded, _ := json.Marshal(payload)
	return "0x" + hex.EncodeToString(utils.Keccak256([]byte(op), s.chainIDBytes(), s.nonceBytes(), encoded))
}

func (s *SimulatedRegistrar) ipID(contract models.Address, tokenID string) models.Address {
	return models.AddressFromBytes(utils.Keccak256([]byte("ip"), s.chainIDBytes(), []byte(contract), []byte(tokenID)))
}

// registerTerms must be called with s.mu held.
func (s *SimulatedRegistrar) registerTerms(data []LicenseTermsData) []models.TokenID {
	ids := make([]models.TokenID, 0, len(data))
	for _, d := range data {
		id, ok := s.termsIDs[d.Terms]
		if !ok {
			id = strconv.Itoa(len(s.termsIDs) + 1)
			s.termsIDs[d.Terms] = id
		}
		ids = append(ids, models.TokenID(id))
	}
	return ids
}

func (s *SimulatedRegistrar) chainIDBytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(s.chainID))
	return b
}

func (s *SimulatedRegistrar) nonceBytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, s.nonce)
	return b
}
