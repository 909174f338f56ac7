/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apiutils

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

// AbortWithApiError converts err into the wire error envelope and aborts the
// request. Errors outside the taxonomy surface as internal_error so internal
// detail never reaches clients through an unclassified path.
func AbortWithApiError(c *gin.Context, err error) {
	_ = c.Error(err)
	var be *batcherrors.BatchError
	if !errors.As(err, &be) {
		be = batcherrors.NewInternalError(err.Error())
	}
	c.AbortWithStatusJSON(be.HttpCode, apis.ErrorResponse{
		Error: apis.ErrorBody{
			Code:      be.ErrorCode,
			Message:   be.ErrorMessage,
			RequestId: GetRequestId(c),
		},
	})
}
