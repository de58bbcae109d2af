package achievement

import "testing"

func TestCatalogKeysUnique(t *testing.T) {
	c := NewCatalog()
	seen := make(map[string]bool)
	for _, def := range c.All() {
		if seen[def.Key] {
			t.Errorf("成就 key 重复: %s", def.Key)
		}
		seen[def.Key] = true

		if def.Points <= 0 {
			t.Errorf("成就 %s 积分应为正数，实际=%d", def.Key, def.Points)
		}
		if def.Requirement.Target <= 0 {
			t.Errorf("成就 %s 目标值应为正数，实际=%v", def.Key, def.Requirement.Target)
		}
	}
}

func TestCatalogGet(t *testing.T) {
	c := NewCatalog()

	def, ok := c.Get("first_hour")
	if !ok {
		t.Fatal("期望目录包含 first_hour")
	}
	if def.Points != 10 || def.Requirement.Metric != MetricStudyHours {
		t.Errorf("first_hour 定义不符: %+v", def)
	}

	if _, ok := c.Get("no_such_key"); ok {
		t.Error("未知 key 期望查找失败")
	}
}

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		level  int
		toNext int
	}{
		{points: 0, level: 1, toNext: 100},
		{points: 10, level: 1, toNext: 90},
		{points: 99, level: 1, toNext: 1},
		{points: 100, level: 2, toNext: 100},
		{points: 250, level: 3, toNext: 50},
		{points: 1000, level: 11, toNext: 100},
	}

	for _, tc := range cases {
		if got := LevelForPoints(tc.points); got != tc.level {
			t.Errorf("%d 分期望等级 %d，实际=%d", tc.points, tc.level, got)
		}
		if got := PointsToNextLevel(tc.points); got != tc.toNext {
			t.Errorf("%d 分期望距下一级 %d，实际=%d", tc.points, tc.toNext, got)
		}
	}
}
