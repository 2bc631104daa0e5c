package commands

import (
	"github.com/jeeves-cluster-organization/aerowire/expressions"
	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/policy"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// batchAttr is the derived per-record header of a batch element: the attr
// bytes, generation, and expiration its op block carries.
type batchAttr struct {
	filterExpression *expressions.FilterExpression
	readAttr         uint8
	writeAttr        uint8
	infoAttr         uint8
	txnAttr          uint8
	expiration       uint32
	generation       uint32
	hasWrite         bool
	sendKey          bool
}

func (a *batchAttr) setRead() {
	a.filterExpression = nil
	a.readAttr = wire.Info1Read
	a.writeAttr = 0
	a.infoAttr = 0
	a.txnAttr = 0
	a.expiration = 0
	a.generation = 0
	a.hasWrite = false
	a.sendKey = false
}

func (a *batchAttr) setBatchRead(rp *policy.BatchReadPolicy) {
	a.setRead()
	if rp != nil {
		a.filterExpression = rp.FilterExpression
	}
}

// adjustRead folds the read shapes of an op list into the read attr.
func (a *batchAttr) adjustRead(ops []*operations.Operation) {
	for _, op := range ops {
		if op.Type() != operations.OpRead {
			continue
		}
		switch {
		case op.IsBinAll():
			a.readAttr |= wire.Info1GetAll
		case op.IsBinNone():
			a.readAttr |= wire.Info1NoBinData
		}
	}
}

// adjustReadForAllBins folds a plain bins selector into the read attr.
func (a *batchAttr) adjustReadForAllBins(readAllBins bool) {
	if readAllBins {
		a.readAttr |= wire.Info1GetAll
	} else {
		a.readAttr |= wire.Info1NoBinData
	}
}

func (a *batchAttr) setBatchWrite(wp *policy.BatchWritePolicy) {
	a.filterExpression = wp.FilterExpression
	a.readAttr = 0
	a.writeAttr = wire.Info2Write | wire.Info2RespondAllOps
	a.infoAttr = 0
	a.txnAttr = 0
	a.expiration = uint32(wp.Expiration)
	a.hasWrite = true
	a.sendKey = wp.SendKey

	switch wp.GenerationPolicy {
	case policy.GenerationIgnore:
		a.generation = 0
	case policy.ExpectGenEqual:
		a.generation = wp.Generation
		a.writeAttr |= wire.Info2Generation
	case policy.ExpectGenGreater:
		a.generation = wp.Generation
		a.writeAttr |= wire.Info2GenerationGT
	}

	switch wp.RecordExistsAction {
	case policy.Update:
	case policy.UpdateOnly:
		a.infoAttr |= wire.Info3UpdateOnly
	case policy.Replace:
		a.infoAttr |= wire.Info3CreateOrReplace
	case policy.ReplaceOnly:
		a.infoAttr |= wire.Info3ReplaceOnly
	case policy.CreateOnly:
		a.writeAttr |= wire.Info2CreateOnly
	}

	if wp.DurableDelete {
		a.writeAttr |= wire.Info2DurableDelete
	}
	if wp.CommitLevel == policy.CommitMaster {
		a.infoAttr |= wire.Info3CommitMaster
	}
}

// adjustWrite folds the read flavors of a mixed op list into the read
// attr.
func (a *batchAttr) adjustWrite(ops []*operations.Operation) {
	readAllBins := false
	readHeader := false
	hasRead := false

	for _, op := range ops {
		if !op.IsRead() {
			continue
		}
		hasRead = true
		if op.Type() == operations.OpRead {
			if op.IsBinAll() {
				readAllBins = true
			} else if op.IsBinNone() {
				readHeader = true
			}
		}
	}

	if hasRead {
		a.readAttr |= wire.Info1Read
		if readAllBins {
			a.readAttr |= wire.Info1GetAll
		} else if readHeader {
			a.readAttr |= wire.Info1NoBinData
		}
	}
}

func (a *batchAttr) setBatchUDF(up *policy.BatchUDFPolicy) {
	a.filterExpression = up.FilterExpression
	a.readAttr = 0
	a.writeAttr = wire.Info2Write
	a.infoAttr = 0
	a.txnAttr = 0
	a.expiration = uint32(up.Expiration)
	a.generation = 0
	a.hasWrite = true
	a.sendKey = up.SendKey

	if up.DurableDelete {
		a.writeAttr |= wire.Info2DurableDelete
	}
	if up.CommitLevel == policy.CommitMaster {
		a.infoAttr |= wire.Info3CommitMaster
	}
}

func (a *batchAttr) setBatchDelete(dp *policy.BatchDeletePolicy) {
	a.filterExpression = dp.FilterExpression
	a.readAttr = 0
	a.writeAttr = wire.Info2Write | wire.Info2RespondAllOps | wire.Info2Delete
	a.infoAttr = 0
	a.txnAttr = 0
	a.expiration = 0
	a.hasWrite = true
	a.sendKey = dp.SendKey

	switch dp.GenerationPolicy {
	case policy.GenerationIgnore:
		a.generation = 0
	case policy.ExpectGenEqual:
		a.generation = dp.Generation
		a.writeAttr |= wire.Info2Generation
	case policy.ExpectGenGreater:
		a.generation = dp.Generation
		a.writeAttr |= wire.Info2GenerationGT
	}

	if dp.DurableDelete {
		a.writeAttr |= wire.Info2DurableDelete
	}
	if dp.CommitLevel == policy.CommitMaster {
		a.infoAttr |= wire.Info3CommitMaster
	}
}
