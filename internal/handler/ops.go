package handler

import (
	"net/http"

	"github.com/sushitlalpan/sushi-be/internal/apierror"
	"github.com/sushitlalpan/sushi-be/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const dlqPeekLimit = 50

// DLQInspect godoc
// @Summary      Inspeccionar la cola de trabajos muertos
// @Description  Lista los trabajos que agotaron sus reintentos, por cola
// @Tags         ops
// @Produce      json
// @Param        queue  path  string  true  "Cola de origen (alerts | reports)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  apierror.APIError
// @Security     BearerAuth
// @Router       /ops/dlq/{queue} [get]
func DLQInspect(rdb *redis.Client) gin.HandlerFunc {
	queues := map[string]string{
		"alerts":  worker.QueueAlerts,
		"reports": worker.QueueReports,
	}
	return func(c *gin.Context) {
		queue, ok := queues[c.Param("queue")]
		if !ok {
			c.JSON(http.StatusNotFound, apierror.New("Cola desconocida"))
			return
		}

		length, err := worker.DLQLength(c.Request.Context(), rdb, queue)
		if err != nil {
			_ = c.Error(err)
			return
		}
		entries, err := worker.PeekDLQ(c.Request.Context(), rdb, queue, dlqPeekLimit)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"queue":       queue,
			"total_count": length,
			"entries":     entries,
		})
	}
}
