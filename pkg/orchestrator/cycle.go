package orchestrator

import (
	"context"
	"net/http"
	"time"

	"github.com/rollout-edge/update-agent/pkg/assemble"
	"github.com/rollout-edge/update-agent/pkg/bootloader"
	"github.com/rollout-edge/update-agent/pkg/descriptor"
	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
	"github.com/rollout-edge/update-agent/pkg/rolloutproto"
	"github.com/rollout-edge/update-agent/pkg/transport"
)

const jsonContentType = "application/json;charset=UTF-8"

// cycle scopes one probe's session, buffers, and outcome, in place of a
// module-level global session context.
type cycle struct {
	id   string
	o    *Orchestrator
	ctx  context.Context
	deps Deps
	cfg  Config

	sess      transport.Session
	devID     string
	base      string
	persisted rollout.ActionID
}

// run walks the full state machine and returns the terminal OutcomeCode.
// Every exit path logs a CycleEvent before returning.
func (c *cycle) run() rollout.OutcomeCode {
	outcome := c.checkImageConfirmed()
	c.logCycleOutcome(outcome)
	return outcome
}

// CHECK_IMAGE_CONFIRMED
func (c *cycle) checkImageConfirmed() rollout.OutcomeCode {
	c.transition("", "CHECK_IMAGE_CONFIRMED", "")

	confirmed, err := c.deps.Bootloader.IsImageConfirmed()
	if err != nil {
		c.logError(log.LayerOrchestrator, "bootloader.IsImageConfirmed", err)
		return rollout.UnconfirmedImage
	}
	if !confirmed {
		return rollout.UnconfirmedImage
	}
	return c.fetchIdentity()
}

// FETCH_IDENTITY
func (c *cycle) fetchIdentity() rollout.OutcomeCode {
	c.transition("CHECK_IMAGE_CONFIRMED", "FETCH_IDENTITY", "")

	devID, err := c.deps.Identity.DeviceID()
	if err != nil {
		c.logError(log.LayerOrchestrator, "identity.DeviceID", err)
		return rollout.MetadataError
	}
	c.devID = devID
	c.base = basePath(c.cfg.Board, devID)

	persisted, err := c.deps.Store.Read()
	if err != nil {
		c.logError(log.LayerOrchestrator, "actionstore.Read", err)
		return rollout.MetadataError
	}
	c.persisted = persisted

	return c.openSession()
}

// OPEN_SESSION
func (c *cycle) openSession() rollout.OutcomeCode {
	c.transition("FETCH_IDENTITY", "OPEN_SESSION", "")

	sess, err := c.deps.Dial(transport.Config{
		Host:    c.cfg.Host,
		Port:    c.cfg.Port,
		TLS:     c.cfg.TLS,
		Logger:  c.deps.Logger,
		CycleID: c.id,
	})
	if err != nil {
		c.logError(log.LayerTransport, "transport.Open", err)
		return rollout.NetworkingError
	}
	c.sess = sess
	defer sess.Close()

	return c.pollBase()
}

// POLL_BASE
func (c *cycle) pollBase() rollout.OutcomeCode {
	c.transition("OPEN_SESSION", "POLL_BASE", "")

	body, _, err := c.getJSON(c.base)
	if err != nil {
		c.logError(log.LayerTransport, "POLL_BASE", err)
		return rollout.NetworkingError
	}

	control, err := rolloutproto.DecodeControlResponse(body)
	if err != nil {
		c.logError(log.LayerOrchestrator, "decode control response", err)
		return rollout.MetadataError
	}

	if sleep := control.Config.Polling.Sleep; sleep != "" {
		if d, derr := descriptor.DecodeSleep(sleep); derr != nil {
			c.logError(log.LayerOrchestrator, "invalid poll sleep", derr)
		} else {
			c.o.setPollInterval(d)
		}
	}

	// Cancel precedence: if both cancelAction and deploymentBase are
	// present, the cycle ends with CancelUpdate and no deployment fetch
	// occurs.
	if control.Links.CancelAction != nil {
		return c.cancelAck(control.Links.CancelAction.Href)
	}

	if control.Links.ConfigData != nil {
		if outcome, ok := c.sendConfig(); !ok {
			return outcome
		}
	}

	return c.parseDeployLink(control)
}

// CANCEL_ACK
func (c *cycle) cancelAck(href string) rollout.OutcomeCode {
	c.transition("POLL_BASE", "CANCEL_ACK", "")

	id, err := descriptor.ExtractCancelActionID(href)
	if err != nil {
		c.logError(log.LayerOrchestrator, "extract cancelAction id", err)
		return rollout.MetadataError
	}

	path := cancelFeedbackPath(c.base, "cancelAction/"+id.String())
	feedback := rolloutproto.NewClosedSuccessFeedback(id.String(), nowString())
	if err := c.postJSON(path, feedback); err != nil {
		c.logError(log.LayerTransport, "CANCEL_ACK feedback", err)
		return rollout.NetworkingError
	}

	return rollout.CancelUpdate
}

// SEND_CONFIG. Returns ok=false when the caller should return outcome
// immediately: MetadataError if the message cannot be encoded,
// NetworkingError if the PUT fails or the server answers with a status of
// 400 or above. ok=true means the cycle continues to PARSE_DEPLOY_LINK.
func (c *cycle) sendConfig() (rollout.OutcomeCode, bool) {
	c.transition("POLL_BASE", "SEND_CONFIG", "")

	msg := rolloutproto.NewMergeConfigMessage(c.devID, c.deps.Identity.HardwareRevision())
	body, err := msg.Encode()
	if err != nil {
		c.logError(log.LayerOrchestrator, "encode config message", err)
		return rollout.MetadataError, false
	}

	status, _, err := c.sess.Request(c.ctx, "PUT", configDataPath(c.base),
		map[string]string{"Content-Type": jsonContentType}, body, nil, nil)
	if err != nil || status >= 400 {
		c.logError(log.LayerTransport, "SEND_CONFIG", err)
		return rollout.NetworkingError, false
	}

	return rollout.Ok, true
}

// PARSE_DEPLOY_LINK
func (c *cycle) parseDeployLink(control rolloutproto.ControlResponse) rollout.OutcomeCode {
	c.transition("POLL_BASE", "PARSE_DEPLOY_LINK", "")

	var href string
	if control.Links.DeploymentBase != nil {
		href = control.Links.DeploymentBase.Href
	}

	suffix, err := descriptor.ExtractDeploymentBaseSuffix(href)
	if err != nil {
		c.logError(log.LayerOrchestrator, "extract deploymentBase suffix", err)
		return rollout.MetadataError
	}
	if suffix == "" {
		return rollout.NoUpdate
	}

	return c.pollDeploy(suffix)
}

// POLL_DEPLOY
func (c *cycle) pollDeploy(suffix string) rollout.OutcomeCode {
	c.transition("PARSE_DEPLOY_LINK", "POLL_DEPLOY", "")

	body, _, err := c.getJSON(deploymentPath(c.base, suffix))
	if err != nil {
		c.logError(log.LayerTransport, "POLL_DEPLOY", err)
		return rollout.NetworkingError
	}

	dr, err := rolloutproto.DecodeDeploymentResponse(body)
	if err != nil {
		c.logError(log.LayerOrchestrator, "decode deployment response", err)
		return rollout.MetadataError
	}

	return c.checkActionID(dr)
}

// CHECK_ACTION_ID
func (c *cycle) checkActionID(dr rolloutproto.DeploymentResponse) rollout.OutcomeCode {
	c.transition("POLL_DEPLOY", "CHECK_ACTION_ID", "")

	id, err := dr.ActionID()
	if err != nil {
		c.logError(log.LayerOrchestrator, "parse deployment action id", err)
		return rollout.MetadataError
	}

	if id == c.persisted {
		return c.alreadyDone(id)
	}

	return c.download(dr, id)
}

// ALREADY_DONE
func (c *cycle) alreadyDone(id rollout.ActionID) rollout.OutcomeCode {
	c.transition("CHECK_ACTION_ID", "ALREADY_DONE", "")

	path := deploymentFeedbackPath(c.base, id.String())
	feedback := rolloutproto.NewClosedSuccessFeedback(id.String(), nowString())
	if err := c.postJSON(path, feedback); err != nil {
		c.logError(log.LayerTransport, "ALREADY_DONE feedback", err)
		return rollout.NetworkingError
	}

	return rollout.Ok
}

// DOWNLOAD
func (c *cycle) download(dr rolloutproto.DeploymentResponse, id rollout.ActionID) rollout.OutcomeCode {
	c.transition("CHECK_ACTION_ID", "DOWNLOAD", "")

	altSize, err := c.deps.Bootloader.AltSlotSize()
	if err != nil {
		c.logError(log.LayerOrchestrator, "bootloader.AltSlotSize", err)
		return rollout.DownloadError
	}

	validated, verr := descriptor.Validate(dr, altSize)
	if verr != nil {
		if derr, ok := verr.(*descriptor.Error); ok {
			c.logError(log.LayerOrchestrator, "validate deployment descriptor", verr)
			return derr.Outcome
		}
		return rollout.MetadataError
	}

	flash, ferr := assemble.NewFlash(c.deps.Streamer, validated.Artifact.Size, c.deps.Logger, c.id, c.devID, id.String())
	if ferr != nil {
		c.logError(log.LayerDownload, "init flash assembler", ferr)
		return rollout.DownloadError
	}

	_, _, err = c.sess.Request(c.ctx, "GET", validated.DownloadPath, nil, nil, nil, flash.Handle)
	if err != nil {
		if aerr, ok := err.(*assemble.Error); ok {
			c.logError(log.LayerDownload, "artifact download", err)
			return aerr.Outcome
		}
		c.logError(log.LayerTransport, "artifact download", err)
		return rollout.NetworkingError
	}

	select {
	case doneErr := <-flash.Done():
		if doneErr != nil {
			c.logError(log.LayerDownload, "flash assembler completion", doneErr)
			if aerr, ok := doneErr.(*assemble.Error); ok {
				return aerr.Outcome
			}
			return rollout.DownloadError
		}
	default:
	}

	return c.armBoot(id)
}

// ARM_BOOT
func (c *cycle) armBoot(id rollout.ActionID) rollout.OutcomeCode {
	c.transition("DOWNLOAD", "ARM_BOOT", "")

	if err := c.deps.Bootloader.RequestUpgrade(bootloader.SlotTest); err != nil {
		c.logError(log.LayerOrchestrator, "bootloader.RequestUpgrade", err)
		return rollout.DownloadError
	}

	return c.persistActionID(id)
}

// PERSIST_ACTION_ID
func (c *cycle) persistActionID(id rollout.ActionID) rollout.OutcomeCode {
	c.transition("ARM_BOOT", "PERSIST_ACTION_ID", "")

	if err := c.deps.Store.Write(id); err != nil {
		// A write failure here is surfaced but non-fatal: the install
		// already armed.
		c.logError(log.LayerOrchestrator, "actionstore.Write", err)
	}

	return rollout.UpdateInstalled
}

// getJSON issues a GET and assembles the response as JSON, tracking
// Content-Length from the response headers to size the accumulation
// buffer up front.
func (c *cycle) getJSON(path string) ([]byte, int, error) {
	var assembler *assemble.JSON

	onHeaders := func(headers http.Header) {
		assembler = assemble.NewJSON(contentLengthOf(headers))
	}

	status, _, err := c.sess.Request(c.ctx, "GET", path, nil, nil, onHeaders, func(chunk []byte, final bool) error {
		return assembler.Handle(chunk, final)
	})
	if err != nil {
		return nil, status, err
	}
	return assembler.Bytes(), status, nil
}

// postJSON POSTs a JSON-encodable feedback document and discards the
// response body.
func (c *cycle) postJSON(path string, v interface{ Encode() ([]byte, error) }) error {
	body, err := v.Encode()
	if err != nil {
		return err
	}
	_, _, err = c.sess.Request(c.ctx, "POST", path,
		map[string]string{"Content-Type": jsonContentType}, body, nil, nil)
	return err
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
