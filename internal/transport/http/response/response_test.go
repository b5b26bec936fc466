package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDefaultsMessage(t *testing.T) {
	assert.Equal(t, "Not Found", Error(CodeNotFound, "").Msg)
	assert.Equal(t, "Post not found", Error(CodeNotFound, "Post not found").Msg)
	assert.Equal(t, struct{}{}, OK(nil).Data)
}

func TestAbortWritesMatchingStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, CodeConflict, "Username already exists")

	assert.Equal(t, http.StatusConflict, w.Code)
	var body Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeConflict, body.Code)
	assert.Equal(t, "Username already exists", body.Msg)
	assert.True(t, c.IsAborted())
}

func TestWriteOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Write(c, OK(gin.H{"message": "User deleted"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{"message":"User deleted"}}`, w.Body.String())
}
