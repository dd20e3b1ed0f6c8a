package apiadapter

import (
	"context"
	"fmt"
	"log/slog"

	application "tokengate/contexts/asset-control/ledger-controller/application"
	"tokengate/contexts/asset-control/ledger-controller/application/commands"
	"tokengate/contexts/asset-control/ledger-controller/application/queries"
	"tokengate/contexts/asset-control/ledger-controller/contracts"
	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
)

// Handler maps command-surface DTOs to application commands/queries. Every
// identity it receives has already been authenticated by the invocation
// environment.
type Handler struct {
	Initialize commands.InitializeAssetUseCase
	Issue      commands.IssueUseCase
	Destroy    commands.DestroyUseCase
	Move       commands.MoveUseCase
	Freeze     commands.FreezeAccountUseCase
	Unfreeze   commands.UnfreezeAccountUseCase
	Pause      commands.PauseUseCase
	Unpause    commands.UnpauseUseCase
	GetState   queries.GetControlStateUseCase
	Logger     *slog.Logger
}

func (h Handler) InitializeAssetHandler(
	ctx context.Context,
	req contracts.InitializeAssetRequest,
) (contracts.InitializeAssetResponse, error) {
	ids, err := parseIdentities(
		field{"mint", req.Mint},
		field{"admin", req.Admin},
		field{"mint_authority", req.MintAuthority},
		field{"freeze_authority", req.FreezeAuthority},
		field{"destination", req.Destination},
	)
	if err != nil {
		h.logRejected("initialize", err)
		return contracts.InitializeAssetResponse{}, err
	}
	result, err := h.Initialize.Execute(ctx, commands.InitializeAssetCommand{
		Mint:            ids[0],
		Creator:         ids[1],
		MintAuthority:   ids[2],
		FreezeAuthority: ids[3],
		Destination:     ids[4],
	})
	if err != nil {
		return contracts.InitializeAssetResponse{}, err
	}
	resp := contracts.InitializeAssetResponse{Status: "success"}
	resp.Data.State = toStateDTO(result.State)
	resp.Data.Decimals = result.Decimals
	resp.Data.InitialSupply = result.InitialSupply
	resp.Data.InitialSupplyUI = valueobjects.FormatAmount(result.InitialSupply, result.Decimals)
	return resp, nil
}

func (h Handler) IssueHandler(ctx context.Context, req contracts.IssueRequest) (contracts.OperationResponse, error) {
	ids, err := parseIdentities(
		field{"mint", req.Mint},
		field{"destination", req.Destination},
		field{"mint_authority", req.MintAuthority},
	)
	if err != nil {
		h.logRejected("issue", err)
		return contracts.OperationResponse{}, err
	}
	result, err := h.Issue.Execute(ctx, commands.IssueCommand{
		Mint:        ids[0],
		Destination: ids[1],
		Authority:   ids[2],
		Amount:      req.Amount,
	})
	if err != nil {
		return contracts.OperationResponse{}, err
	}
	return toOperationResponse(result), nil
}

func (h Handler) DestroyHandler(ctx context.Context, req contracts.DestroyRequest) (contracts.OperationResponse, error) {
	ids, err := parseIdentities(
		field{"mint", req.Mint},
		field{"source", req.Source},
		field{"authority", req.Authority},
	)
	if err != nil {
		h.logRejected("destroy", err)
		return contracts.OperationResponse{}, err
	}
	result, err := h.Destroy.Execute(ctx, commands.DestroyCommand{
		Mint:      ids[0],
		Source:    ids[1],
		Authority: ids[2],
		Amount:    req.Amount,
	})
	if err != nil {
		return contracts.OperationResponse{}, err
	}
	return toOperationResponse(result), nil
}

func (h Handler) MoveHandler(ctx context.Context, req contracts.MoveRequest) (contracts.OperationResponse, error) {
	ids, err := parseIdentities(
		field{"mint", req.Mint},
		field{"source", req.Source},
		field{"destination", req.Destination},
		field{"authority", req.Authority},
	)
	if err != nil {
		h.logRejected("move", err)
		return contracts.OperationResponse{}, err
	}
	result, err := h.Move.Execute(ctx, commands.MoveCommand{
		Mint:        ids[0],
		Source:      ids[1],
		Destination: ids[2],
		Authority:   ids[3],
		Amount:      req.Amount,
	})
	if err != nil {
		return contracts.OperationResponse{}, err
	}
	return toOperationResponse(result), nil
}

func (h Handler) FreezeHandler(ctx context.Context, req contracts.FreezeRequest) (contracts.OperationResponse, error) {
	cmd, err := h.freezeCommand("freeze", req)
	if err != nil {
		return contracts.OperationResponse{}, err
	}
	result, err := h.Freeze.Execute(ctx, cmd)
	if err != nil {
		return contracts.OperationResponse{}, err
	}
	return toOperationResponse(result), nil
}

func (h Handler) UnfreezeHandler(ctx context.Context, req contracts.FreezeRequest) (contracts.OperationResponse, error) {
	cmd, err := h.freezeCommand("unfreeze", req)
	if err != nil {
		return contracts.OperationResponse{}, err
	}
	result, err := h.Unfreeze.Execute(ctx, cmd)
	if err != nil {
		return contracts.OperationResponse{}, err
	}
	return toOperationResponse(result), nil
}

func (h Handler) PauseHandler(ctx context.Context, req contracts.PauseRequest) (contracts.PauseResponse, error) {
	cmd, err := h.pauseCommand("pause", req)
	if err != nil {
		return contracts.PauseResponse{}, err
	}
	result, err := h.Pause.Execute(ctx, cmd)
	if err != nil {
		return contracts.PauseResponse{}, err
	}
	return contracts.PauseResponse{Status: "success", Changed: result.Changed, Data: toStateDTO(result.State)}, nil
}

func (h Handler) UnpauseHandler(ctx context.Context, req contracts.PauseRequest) (contracts.PauseResponse, error) {
	cmd, err := h.pauseCommand("unpause", req)
	if err != nil {
		return contracts.PauseResponse{}, err
	}
	result, err := h.Unpause.Execute(ctx, cmd)
	if err != nil {
		return contracts.PauseResponse{}, err
	}
	return contracts.PauseResponse{Status: "success", Changed: result.Changed, Data: toStateDTO(result.State)}, nil
}

func (h Handler) ControlStateHandler(
	ctx context.Context,
	req contracts.ControlStateRequest,
) (contracts.ControlStateResponse, error) {
	ids, err := parseIdentities(field{"mint", req.Mint})
	if err != nil {
		h.logRejected("status", err)
		return contracts.ControlStateResponse{}, err
	}
	state, err := h.GetState.Execute(ctx, ids[0])
	if err != nil {
		return contracts.ControlStateResponse{}, err
	}
	return contracts.ControlStateResponse{Status: "success", Data: toStateDTO(state)}, nil
}

func (h Handler) freezeCommand(operation string, req contracts.FreezeRequest) (commands.FreezeCommand, error) {
	ids, err := parseIdentities(
		field{"mint", req.Mint},
		field{"account", req.Account},
		field{"freeze_authority", req.FreezeAuthority},
	)
	if err != nil {
		h.logRejected(operation, err)
		return commands.FreezeCommand{}, err
	}
	return commands.FreezeCommand{Mint: ids[0], Account: ids[1], Authority: ids[2]}, nil
}

func (h Handler) pauseCommand(operation string, req contracts.PauseRequest) (commands.PauseCommand, error) {
	ids, err := parseIdentities(field{"mint", req.Mint}, field{"caller", req.Caller})
	if err != nil {
		h.logRejected(operation, err)
		return commands.PauseCommand{}, err
	}
	return commands.PauseCommand{Mint: ids[0], Caller: ids[1]}, nil
}

func (h Handler) logRejected(operation string, err error) {
	application.ResolveLogger(h.Logger).Debug("command request rejected",
		"event", "ledger_controller_request_rejected",
		"module", application.ModuleName,
		"layer", "adapter",
		"operation", operation,
		"error", err.Error(),
	)
}

type field struct {
	name  string
	value string
}

func parseIdentities(fields ...field) ([]valueobjects.Identity, error) {
	ids := make([]valueobjects.Identity, 0, len(fields))
	for _, f := range fields {
		id, err := valueobjects.ParseIdentity(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toStateDTO(state entities.ControlState) contracts.ControlStateDTO {
	return contracts.ControlStateDTO{
		Mint:     state.Mint.String(),
		IsPaused: state.IsPaused,
		Admin:    state.Admin.String(),
	}
}

func toOperationResponse(result commands.ForwardResult) contracts.OperationResponse {
	resp := contracts.OperationResponse{Status: "success"}
	resp.Data.Operation = string(result.Operation)
	resp.Data.Mint = result.Mint.String()
	if result.Amount > 0 {
		resp.Data.Amount = result.Amount
		resp.Data.AmountUI = valueobjects.FormatAmount(result.Amount, valueobjects.TokenDecimals)
	}
	return resp
}
